package store

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// newestFirst orders by transaction time, breaking ties by insertion order.
const newestFirst = "transaction_at DESC, created_at ASC, id ASC"

type transactionStore struct {
	db *gorm.DB
}

func (s *transactionStore) Create(ctx context.Context, txn *models.Transaction) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(txn).Error)
}

func (s *transactionStore) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&txn).Error; err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

func (s *transactionStore) Update(ctx context.Context, txn *models.Transaction) error {
	result := s.db.WithContext(ctx).Model(txn).
		Select("type", "amount", "notes", "transaction_at", "category_id").
		Updates(txn)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *transactionStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *transactionStore) List(ctx context.Context, ownerID string, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Transaction{}).Scopes(ownedBy(ownerID), matching(filter))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var txns []models.Transaction
	if err := s.db.WithContext(ctx).
		Scopes(ownedBy(ownerID), matching(filter), pagination.Paginate(page)).
		Preload("Category").
		Order(newestFirst).
		Find(&txns).Error; err != nil {
		return nil, 0, translate(err)
	}
	return txns, total, nil
}

func (s *transactionStore) Recent(ctx context.Context, ownerID string, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := s.db.WithContext(ctx).
		Scopes(ownedBy(ownerID)).
		Preload("Category").
		Order(newestFirst).
		Limit(limit).
		Find(&txns).Error; err != nil {
		return nil, translate(err)
	}
	return txns, nil
}

// totalsRow receives the aggregate columns; scanning into a struct lets
// decimal.Decimal handle whichever numeric type the driver returns.
type totalsRow struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Count    int64
}

func (s *transactionStore) Totals(ctx context.Context, ownerID string) (Totals, error) {
	var row totalsRow
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expenses, "+
				"COUNT(*) AS count",
			models.TransactionTypeIncome, models.TransactionTypeExpense,
		).
		Scopes(ownedBy(ownerID)).
		Scan(&row).Error
	if err != nil {
		return Totals{}, translate(err)
	}
	return Totals{Income: row.Income, Expenses: row.Expenses, Count: row.Count}, nil
}

type categoryTotalRow struct {
	CategoryID string
	Amount     decimal.Decimal
}

func (s *transactionStore) ExpensesByCategory(ctx context.Context, ownerID string) ([]CategoryTotal, error) {
	var rows []categoryTotalRow
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("category_id, SUM(amount) AS amount").
		Scopes(ownedBy(ownerID)).
		Where("type = ?", models.TransactionTypeExpense).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	totals := make([]CategoryTotal, 0, len(rows))
	for _, r := range rows {
		totals = append(totals, CategoryTotal{CategoryID: r.CategoryID, Amount: r.Amount})
	}
	return totals, nil
}

func ownedBy(ownerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

func matching(f TransactionFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Type != nil {
			db = db.Where("type = ?", *f.Type)
		}
		if f.CategoryID != nil {
			db = db.Where("category_id = ?", *f.CategoryID)
		}
		if f.From != nil {
			db = db.Where("transaction_at >= ?", *f.From)
		}
		if f.To != nil {
			db = db.Where("transaction_at <= ?", *f.To)
		}
		return db
	}
}
