package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active user with a unique fake email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d.%s", nextID(), gofakeit.Email())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates an active user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:       email,
		FirstName:   gofakeit.FirstName(),
		LastName:    gofakeit.LastName(),
		PhoneNumber: gofakeit.Numerify("##########"),
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates an active category owned by ownerID with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, ownerID string) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, ownerID, fmt.Sprintf("Category %d", nextID()))
}

// CreateTestCategoryNamed creates an active category owned by ownerID.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, ownerID, name string) *models.Category {
	t.Helper()

	category := models.NewUserCategory(ownerID, models.CategoryDetails{
		Name:        name,
		Description: gofakeit.Sentence(5),
		Color:       gofakeit.HexColor(),
	})
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestDefaultCategory creates an active shared default category.
func CreateTestDefaultCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := models.NewDefaultCategory(models.CategoryDetails{Name: name})
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test default category: %v", err)
	}
	return category
}

// DeactivateTestCategory flips a category's active flag off.
func DeactivateTestCategory(t *testing.T, db *gorm.DB, category *models.Category) {
	t.Helper()

	if err := db.Model(category).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate test category: %v", err)
	}
	category.IsActive = false
}

// CreateTestTransaction creates a transaction of the given type and amount
// (a decimal string such as "12.50") at the given time.
func CreateTestTransaction(t *testing.T, db *gorm.DB, ownerID, categoryID string, txType models.TransactionType, amount string, at time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Type:          txType,
		Amount:        decimal.RequireFromString(amount),
		Notes:         gofakeit.Sentence(4),
		TransactionAt: at.UTC(),
		OwnerID:       ownerID,
		CategoryID:    categoryID,
	}
	if err := db.Omit("Category").Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
