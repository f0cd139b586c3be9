package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/metrics"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/store"
)

const (
	maxNotesLen              = 500
	amountScale              = 2
	transactionMetricsEntity = "transaction"
)

// maxAmount is the first value that no longer fits a numeric(15,2) column.
var maxAmount = decimal.New(1, 13)

// transactionService handles ledger operations.
type transactionService struct {
	store store.Store
	log   *zap.SugaredLogger
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(s store.Store) TransactionServicer {
	return &transactionService{store: s, log: logger.Named("transactions")}
}

// CreateTransaction records a transaction owned by userID.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, input TransactionInput) (txn *models.Transaction, err error) {
	defer func() { metrics.RecordOperation(transactionMetricsEntity, "create", err) }()

	in, err := normalizeTransactionInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := resolveUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	category, err := s.usableCategory(ctx, userID, in.CategoryID, "")
	if err != nil {
		return nil, err
	}

	txn = &models.Transaction{
		Type:          in.Type,
		Amount:        in.Amount,
		Notes:         in.Notes,
		TransactionAt: in.TransactionAt,
		OwnerID:       userID,
		CategoryID:    category.ID,
	}
	if err := s.store.Transactions().Create(ctx, txn); err != nil {
		return nil, storeError(err, apperrors.ErrTransactionNotFound)
	}
	txn.Category = category

	s.log.Infow("transaction created",
		"transaction_id", txn.ID,
		"user_id", userID,
		"type", txn.Type,
		"category_id", category.ID,
	)
	return txn, nil
}

// ListUserTransactions returns one page of the user's transactions, most recent first.
func (s *transactionService) ListUserTransactions(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	return s.SearchTransactions(ctx, userID, TransactionFilter{}, page)
}

// GetTransactionByID returns a transaction with its category attached.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	txn, err := s.store.Transactions().GetByID(ctx, transactionID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrTransactionNotFound)
	}
	return txn, nil
}

// UpdateTransaction overwrites type, amount, notes, time and category of a
// transaction owned by userID. The owner never changes.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, input TransactionInput) (txn *models.Transaction, err error) {
	defer func() { metrics.RecordOperation(transactionMetricsEntity, "update", err) }()

	in, err := normalizeTransactionInput(input)
	if err != nil {
		return nil, err
	}
	txn, err = s.ownedTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	category, err := s.usableCategory(ctx, userID, in.CategoryID, txn.CategoryID)
	if err != nil {
		return nil, err
	}

	txn.Type = in.Type
	txn.Amount = in.Amount
	txn.Notes = in.Notes
	txn.TransactionAt = in.TransactionAt
	txn.CategoryID = category.ID
	txn.Category = nil
	if err := s.store.Transactions().Update(ctx, txn); err != nil {
		return nil, storeError(err, apperrors.ErrTransactionNotFound)
	}
	txn.Category = category

	s.log.Infow("transaction updated", "transaction_id", txn.ID, "user_id", userID)
	return txn, nil
}

// DeleteTransaction permanently removes a transaction owned by userID.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) (err error) {
	defer func() { metrics.RecordOperation(transactionMetricsEntity, "delete", err) }()

	txn, err := s.ownedTransaction(ctx, userID, transactionID)
	if err != nil {
		return err
	}
	if err := s.store.Transactions().Delete(ctx, txn.ID); err != nil {
		return storeError(err, apperrors.ErrTransactionNotFound)
	}

	s.log.Infow("transaction deleted", "transaction_id", txn.ID, "user_id", userID)
	return nil
}

// SearchTransactions returns one page of the user's transactions matching
// filter, most recent first.
func (s *transactionService) SearchTransactions(ctx context.Context, userID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()
	if !page.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "page must be >= 0 and size between 1 and 100")
	}
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must not be after to")
	}
	if filter.From != nil {
		from := filter.From.UTC()
		filter.From = &from
	}
	if filter.To != nil {
		to := filter.To.UTC()
		filter.To = &to
	}

	if _, err := resolveUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}

	txns, total, err := s.store.Transactions().List(ctx, userID, filter, page)
	if err != nil {
		return nil, storeError(err, apperrors.ErrTransactionNotFound)
	}

	result := pagination.NewPageResponse(txns, page.Page, page.Size, total)
	return &result, nil
}

// ownedTransaction resolves the user and a transaction the user owns.
func (s *transactionService) ownedTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	if _, err := resolveUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	txn, err := s.store.Transactions().GetByID(ctx, transactionID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrTransactionNotFound)
	}
	if txn.OwnerID != userID {
		return nil, apperrors.ErrTransactionNotOwned
	}
	return txn, nil
}

// usableCategory returns a category the user may book against: any default,
// or one of the user's own. It must be active unless it is currentID, the
// category the transaction is already filed under.
func (s *transactionService) usableCategory(ctx context.Context, userID, categoryID, currentID string) (*models.Category, error) {
	category, err := s.store.Categories().GetByID(ctx, categoryID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrCategoryNotFound)
	}
	if !category.IsActive && category.ID != currentID {
		return nil, apperrors.ErrCategoryNotFound
	}

	switch owner := category.Ownership().(type) {
	case models.DefaultOwnership:
		return category, nil
	case models.UserOwnership:
		if owner.UserID != userID {
			return nil, apperrors.ErrCategoryNotOwned
		}
		return category, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("unknown category ownership"))
	}
}

// normalizeTransactionInput validates input and rounds the amount half-up
// to two decimal places.
func normalizeTransactionInput(in TransactionInput) (TransactionInput, error) {
	if !in.Type.Valid() {
		return in, apperrors.ErrInvalidTransactionType
	}

	in.Amount = in.Amount.Round(amountScale)
	if !in.Amount.IsPositive() {
		return in, apperrors.ErrInvalidAmount
	}
	if in.Amount.GreaterThanOrEqual(maxAmount) {
		return in, apperrors.WithMessage(apperrors.ErrInvalidAmount, "Amount exceeds the supported maximum")
	}

	in.Notes = strings.TrimSpace(in.Notes)
	if utf8.RuneCountInString(in.Notes) > maxNotesLen {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "notes must be at most 500 characters")
	}
	if in.TransactionAt.IsZero() {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction time is required")
	}
	in.TransactionAt = in.TransactionAt.UTC()

	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if in.CategoryID == "" {
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "category_id is required")
	}
	return in, nil
}
