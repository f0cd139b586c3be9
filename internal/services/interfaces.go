package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/store"
)

// UserInput carries the editable fields of a user.
type UserInput struct {
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	AvatarURL   string
}

// TransactionInput carries the caller-supplied fields of a transaction.
type TransactionInput struct {
	Type          models.TransactionType
	Amount        decimal.Decimal
	Notes         string
	TransactionAt time.Time
	CategoryID    string
}

// TransactionFilter narrows a transaction search; nil fields match everything.
type TransactionFilter = store.TransactionFilter

// UserServicer defines the contract for the user directory.
type UserServicer interface {
	CreateUser(ctx context.Context, input UserInput) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, input UserInput) (*models.User, error)
	DeactivateUser(ctx context.Context, id string) error
	ListActiveUsers(ctx context.Context) ([]models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CountActiveUsers(ctx context.Context) (int64, error)
}

// CategoryServicer defines the contract for category ownership rules.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID string, details models.CategoryDetails) (*models.Category, error)
	ListVisibleCategories(ctx context.Context, userID string) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, categoryID string) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, details models.CategoryDetails) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	ListDefaultCategories(ctx context.Context) ([]models.Category, error)
	SeedDefaultCategories(ctx context.Context) (int, error)
}

// TransactionServicer defines the contract for ledger operations.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, input TransactionInput) (*models.Transaction, error)
	ListUserTransactions(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ctx context.Context, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	SearchTransactions(ctx context.Context, userID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// DashboardServicer defines the contract for the dashboard aggregator.
type DashboardServicer interface {
	GetDashboard(ctx context.Context, userID string) (*models.DashboardSummary, error)
}
