package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gorm.io/gorm"

	"fintrack/internal/logger"
	"fintrack/internal/store"
	"fintrack/internal/testutil"
)

var ctx = context.Background()

func init() {
	logger.Init("test")
}

// setupStore returns an isolated database and a Store over it. The database
// is closed when the test ends.
func setupStore(t *testing.T) (*gorm.DB, store.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return db, store.NewGormStore(db)
}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// testTime returns a fixed instant shifted by the given number of hours.
func testTime(hours int) time.Time {
	return baseTime.Add(time.Duration(hours) * time.Hour)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
