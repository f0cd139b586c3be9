package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/metrics"
	"fintrack/internal/models"
	"fintrack/internal/store"
)

// DefaultRecentLimit is the number of recent transactions on a dashboard.
const DefaultRecentLimit = 5

var hundred = decimal.NewFromInt(100)

// dashboardService derives dashboard summaries from the transaction set.
type dashboardService struct {
	store       store.Store
	recentLimit int
	flight      singleflight.Group
	log         *zap.SugaredLogger
}

// NewDashboardService creates a new DashboardServicer. recentLimit values
// below 1 fall back to DefaultRecentLimit.
func NewDashboardService(s store.Store, recentLimit int) DashboardServicer {
	if recentLimit < 1 {
		recentLimit = DefaultRecentLimit
	}
	return &dashboardService{store: s, recentLimit: recentLimit, log: logger.Named("dashboard")}
}

// GetDashboard computes the user's summary. Calls for the same user that
// arrive before a computation starts reading share it; the returned summary
// must not be modified.
func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	// The shared computation must outlive any single caller's cancellation.
	ch := s.flight.DoChan(userID, func() (interface{}, error) {
		return s.summarize(context.WithoutCancel(ctx), userID)
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, ctx.Err())
	case res := <-ch:
		if res.Shared {
			metrics.DashboardShared()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.DashboardSummary), nil
	}
}

// summarize runs every read inside one snapshot so the totals, breakdown and
// recent list describe the same state.
func (s *dashboardService) summarize(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	start := time.Now()
	defer func() { metrics.ObserveDashboard(time.Since(start)) }()

	var summary *models.DashboardSummary
	err := s.store.Snapshot(ctx, func(snap store.Store) error {
		// Callers arriving from here on may have seen a newer write.
		s.flight.Forget(userID)

		if _, err := resolveUser(ctx, snap.Users(), userID); err != nil {
			return err
		}

		totals, err := snap.Transactions().Totals(ctx, userID)
		if err != nil {
			return storeError(err, apperrors.ErrTransactionNotFound)
		}
		byCategory, err := snap.Transactions().ExpensesByCategory(ctx, userID)
		if err != nil {
			return storeError(err, apperrors.ErrTransactionNotFound)
		}
		categories, err := snap.Categories().GetByIDs(ctx, categoryIDs(byCategory))
		if err != nil {
			return storeError(err, apperrors.ErrCategoryNotFound)
		}
		recent, err := snap.Transactions().Recent(ctx, userID, s.recentLimit)
		if err != nil {
			return storeError(err, apperrors.ErrTransactionNotFound)
		}

		summary = buildSummary(totals, byCategory, categories, recent)
		return nil
	})
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}

	s.log.Debugw("dashboard computed",
		"user_id", userID,
		"transactions", summary.TotalTransactions,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return summary, nil
}

// buildSummary assembles the summary from store aggregates. Sums are rounded
// to two decimals before the balance and percentages are derived from them.
func buildSummary(totals store.Totals, byCategory []store.CategoryTotal, categories []models.Category, recent []models.Transaction) *models.DashboardSummary {
	income := totals.Income.Round(amountScale)
	expenses := totals.Expenses.Round(amountScale)

	lookup := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		lookup[c.ID] = c
	}

	spending := make([]models.CategorySpending, 0, len(byCategory))
	for _, row := range byCategory {
		category, ok := lookup[row.CategoryID]
		if !ok {
			category = models.Category{Base: models.Base{ID: row.CategoryID}}
		}
		amount := row.Amount.Round(amountScale)
		spending = append(spending, models.CategorySpending{
			Category:   category,
			Amount:     amount,
			Percentage: Percentage(amount, expenses),
		})
	}
	sort.SliceStable(spending, func(i, j int) bool {
		a, b := spending[i], spending[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		if a.Category.Name != b.Category.Name {
			return a.Category.Name < b.Category.Name
		}
		return a.Category.ID < b.Category.ID
	})

	if recent == nil {
		recent = []models.Transaction{}
	}

	return &models.DashboardSummary{
		TotalIncome:        income,
		TotalExpenses:      expenses,
		Balance:            income.Sub(expenses),
		TotalTransactions:  totals.Count,
		CategorySpending:   spending,
		RecentTransactions: recent,
	}
}

// Percentage returns amount as a percentage of total: the ratio is rounded
// half-up to four decimals, then scaled by 100. A zero total yields zero.
func Percentage(amount, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return amount.DivRound(total, 4).Mul(hundred)
}

func categoryIDs(rows []store.CategoryTotal) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CategoryID)
	}
	return ids
}
