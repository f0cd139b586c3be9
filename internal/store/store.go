// Package store defines the durable store the ledger engines read and write
// through, together with its GORM implementation.
//
// Store methods return ErrNotFound and ErrDuplicate for the two expected
// outcomes of a lookup or insert. Every other failure wraps ErrUnavailable.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrUnavailable wraps connection and query failures.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store groups the per-entity stores and offers consistent multi-read snapshots.
type Store interface {
	Users() UserStore
	Categories() CategoryStore
	Transactions() TransactionStore

	// Snapshot runs fn against a store bound to a single read-only transaction,
	// so every read inside fn observes the same state.
	Snapshot(ctx context.Context, fn func(Store) error) error

	// Ping checks connectivity to the backing database.
	Ping(ctx context.Context) error
}

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListActive(ctx context.Context) ([]models.User, error)
	CountActive(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *models.User) error
	Deactivate(ctx context.Context, id string) error
}

// CategoryStore persists categories.
type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	// GetByID returns the category whatever its active state.
	GetByID(ctx context.Context, id string) (*models.Category, error)
	// GetByIDs returns the categories with the given ids, in no particular order.
	GetByIDs(ctx context.Context, ids []string) ([]models.Category, error)
	// ListVisible returns active categories owned by userID plus active
	// defaults, ordered by name.
	ListVisible(ctx context.Context, userID string) ([]models.Category, error)
	ListDefaults(ctx context.Context) ([]models.Category, error)
	// NameTaken reports whether an active category owned by userID, or an
	// active default, is called name. excludeID skips one row (for renames).
	NameTaken(ctx context.Context, userID, name, excludeID string) (bool, error)
	// SharedNames returns the names of every default or unowned category,
	// active or not.
	SharedNames(ctx context.Context) (map[string]bool, error)
	// UpdateDetails writes name, description, icon and color.
	UpdateDetails(ctx context.Context, category *models.Category) error
	Deactivate(ctx context.Context, id string) error
}

// TransactionFilter narrows a transaction listing. Nil fields match everything.
type TransactionFilter struct {
	Type       *models.TransactionType
	CategoryID *string
	From       *time.Time
	To         *time.Time
}

// Totals is the store-side aggregate over one user's transactions.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Count    int64
}

// CategoryTotal is the sum of one user's EXPENSE amounts in one category.
type CategoryTotal struct {
	CategoryID string
	Amount     decimal.Decimal
}

// TransactionStore persists transactions. Reads attach the referenced category.
type TransactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	Update(ctx context.Context, txn *models.Transaction) error
	Delete(ctx context.Context, id string) error
	// List returns one page of the owner's transactions matching filter, most
	// recent transaction time first, plus the total number of matches.
	List(ctx context.Context, ownerID string, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error)
	Recent(ctx context.Context, ownerID string, limit int) ([]models.Transaction, error)
	Totals(ctx context.Context, ownerID string) (Totals, error)
	ExpensesByCategory(ctx context.Context, ownerID string) ([]CategoryTotal, error)
}
