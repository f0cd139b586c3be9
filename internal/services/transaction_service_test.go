package services

import (
	"math"
	"strings"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func expenseInput(categoryID, amt string) TransactionInput {
	return TransactionInput{
		Type:          models.TransactionTypeExpense,
		Amount:        amount(amt),
		Notes:         "lunch",
		TransactionAt: testTime(0),
		CategoryID:    categoryID,
	}
}

func TestCreateTransaction(t *testing.T) {
	t.Run("returns_category", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategoryNamed(t, db, user.ID, "Food")

		txn, err := svc.CreateTransaction(ctx, user.ID, expenseInput(cat.ID, "12.345"))
		testutil.AssertNoError(t, err)

		if txn.ID == "" {
			t.Fatal("expected transaction ID")
		}
		if txn.Category == nil || txn.Category.ID != cat.ID || txn.Category.Name != "Food" {
			t.Fatalf("expected category Food attached, got %+v", txn.Category)
		}
		if txn.OwnerID != user.ID {
			t.Errorf("expected owner %s, got %s", user.ID, txn.OwnerID)
		}
		testutil.AssertDecimal(t, "12.35", txn.Amount)

		stored, err := svc.GetTransactionByID(ctx, txn.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "12.35", stored.Amount)
		if stored.Category == nil || stored.Category.ID != cat.ID {
			t.Error("expected stored transaction to carry its category")
		}
	})

	t.Run("default_category_usable", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		def := testutil.CreateTestDefaultCategory(t, db, "Salary")

		in := expenseInput(def.ID, "3000")
		in.Type = models.TransactionTypeIncome
		txn, err := svc.CreateTransaction(ctx, user.ID, in)
		testutil.AssertNoError(t, err)
		if txn.Type != models.TransactionTypeIncome {
			t.Errorf("expected INCOME, got %s", txn.Type)
		}
	})

	t.Run("time_stored_in_utc", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		zone := time.FixedZone("UTC+8", 8*3600)
		in := expenseInput(cat.ID, "5")
		in.TransactionAt = time.Date(2024, 3, 1, 20, 0, 0, 0, zone)
		txn, err := svc.CreateTransaction(ctx, user.ID, in)
		testutil.AssertNoError(t, err)

		if !txn.TransactionAt.Equal(testTime(0)) || txn.TransactionAt.Location() != time.UTC {
			t.Errorf("expected %s in UTC, got %s", testTime(0), txn.TransactionAt)
		}
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		for _, txType := range []models.TransactionType{models.TransactionTypeIncome, models.TransactionTypeExpense} {
			for _, amt := range []string{"0", "-10", "0.004"} {
				in := expenseInput(cat.ID, amt)
				in.Type = txType
				_, err := svc.CreateTransaction(ctx, user.ID, in)
				testutil.AssertAppError(t, err, "INVALID_AMOUNT")
			}
		}
	})

	t.Run("amount_too_large", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		_, err := svc.CreateTransaction(ctx, user.ID, expenseInput(cat.ID, "10000000000000"))
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		in := expenseInput(cat.ID, "10")
		in.Type = "TRANSFER"
		_, err := svc.CreateTransaction(ctx, user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("invalid_fields", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		longNotes := expenseInput(cat.ID, "10")
		longNotes.Notes = strings.Repeat("n", 501)
		noTime := expenseInput(cat.ID, "10")
		noTime.TransactionAt = time.Time{}
		noCategory := expenseInput("  ", "10")

		for name, in := range map[string]TransactionInput{
			"notes_too_long":   longNotes,
			"missing_time":     noTime,
			"missing_category": noCategory,
		} {
			_, err := svc.CreateTransaction(ctx, user.ID, in)
			if err == nil {
				t.Errorf("%s: expected error", name)
				continue
			}
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
	})

	t.Run("category_rules", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestCategory(t, db, other.ID)
		retired := testutil.CreateTestCategory(t, db, user.ID)
		testutil.DeactivateTestCategory(t, db, retired)

		_, err := svc.CreateTransaction(ctx, user.ID, expenseInput(foreign.ID, "10"))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_OWNED")

		_, err = svc.CreateTransaction(ctx, user.ID, expenseInput(retired.ID, "10"))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		_, err = svc.CreateTransaction(ctx, user.ID, expenseInput("missing", "10"))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("unknown_user", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		def := testutil.CreateTestDefaultCategory(t, db, "Food")

		_, err := svc.CreateTransaction(ctx, "missing", expenseInput(def.ID, "10"))
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestListUserTransactions(t *testing.T) {
	t.Run("pages_most_recent_first", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		var created []*models.Transaction
		for i := 0; i < 5; i++ {
			created = append(created, testutil.CreateTestTransaction(t, db, user.ID, cat.ID, models.TransactionTypeExpense, "10", testTime(i)))
		}

		first, err := svc.ListUserTransactions(ctx, user.ID, pagination.PageRequest{Page: 0, Size: 2})
		testutil.AssertNoError(t, err)
		if len(first.Data) != 2 {
			t.Fatalf("expected 2 items, got %d", len(first.Data))
		}
		if first.Data[0].ID != created[4].ID || first.Data[1].ID != created[3].ID {
			t.Error("expected the two most recent transactions first")
		}
		if first.TotalItems != 5 || first.TotalPages != 3 {
			t.Errorf("expected 5 items over 3 pages, got %d over %d", first.TotalItems, first.TotalPages)
		}
		if first.Data[0].Category == nil {
			t.Error("expected listed transactions to carry their category")
		}

		last, err := svc.ListUserTransactions(ctx, user.ID, pagination.PageRequest{Page: 2, Size: 2})
		testutil.AssertNoError(t, err)
		if len(last.Data) != 1 || last.Data[0].ID != created[0].ID {
			t.Errorf("expected only the oldest transaction on the last page, got %d items", len(last.Data))
		}

		beyond, err := svc.ListUserTransactions(ctx, user.ID, pagination.PageRequest{Page: 9, Size: 2})
		testutil.AssertNoError(t, err)
		if len(beyond.Data) != 0 {
			t.Errorf("expected empty page, got %d items", len(beyond.Data))
		}
	})

	t.Run("default_page_size", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)

		page, err := svc.ListUserTransactions(ctx, user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.Size != 20 || page.TotalItems != 0 {
			t.Errorf("expected size 20 and no items, got size %d items %d", page.Size, page.TotalItems)
		}
	})

	t.Run("only_own_transactions", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		def := testutil.CreateTestDefaultCategory(t, db, "Food")
		testutil.CreateTestTransaction(t, db, user.ID, def.ID, models.TransactionTypeExpense, "1", testTime(0))
		testutil.CreateTestTransaction(t, db, other.ID, def.ID, models.TransactionTypeExpense, "2", testTime(1))

		page, err := svc.ListUserTransactions(ctx, user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 || page.Data[0].OwnerID != user.ID {
			t.Errorf("expected only the user's transaction, got %d", page.TotalItems)
		}
	})

	t.Run("invalid_page", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ListUserTransactions(ctx, user.ID, pagination.PageRequest{Page: -1, Size: 10})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.ListUserTransactions(ctx, user.ID, pagination.PageRequest{Size: 101})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.ListUserTransactions(ctx, user.ID, pagination.PageRequest{Page: math.MaxInt/100 + 1, Size: 100})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestSearchTransactions(t *testing.T) {
	db, s := setupStore(t)
	svc := NewTransactionService(s)
	user := testutil.CreateTestUser(t, db)
	food := testutil.CreateTestCategory(t, db, user.ID)
	salary := testutil.CreateTestDefaultCategory(t, db, "Salary")

	testutil.CreateTestTransaction(t, db, user.ID, food.ID, models.TransactionTypeExpense, "10", testTime(0))
	testutil.CreateTestTransaction(t, db, user.ID, food.ID, models.TransactionTypeExpense, "20", testTime(24))
	testutil.CreateTestTransaction(t, db, user.ID, salary.ID, models.TransactionTypeIncome, "1000", testTime(48))

	income := models.TransactionTypeIncome
	from, to := testTime(12), testTime(48)
	bogus := models.TransactionType("BONUS")

	tests := []struct {
		name   string
		filter TransactionFilter
		want   int64
	}{
		{name: "no_filter", filter: TransactionFilter{}, want: 3},
		{name: "by_type", filter: TransactionFilter{Type: &income}, want: 1},
		{name: "by_category", filter: TransactionFilter{CategoryID: &food.ID}, want: 2},
		{name: "by_range_inclusive", filter: TransactionFilter{From: &from, To: &to}, want: 2},
		{name: "from_only", filter: TransactionFilter{From: &to}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.SearchTransactions(ctx, user.ID, tt.filter, pagination.PageRequest{})
			testutil.AssertNoError(t, err)
			if page.TotalItems != tt.want {
				t.Errorf("expected %d matches, got %d", tt.want, page.TotalItems)
			}
		})
	}

	t.Run("inverted_range", func(t *testing.T) {
		_, err := svc.SearchTransactions(ctx, user.ID, TransactionFilter{From: &to, To: &from}, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_type", func(t *testing.T) {
		_, err := svc.SearchTransactions(ctx, user.ID, TransactionFilter{Type: &bogus}, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, user.ID)
		salary := testutil.CreateTestDefaultCategory(t, db, "Salary")
		txn := testutil.CreateTestTransaction(t, db, user.ID, food.ID, models.TransactionTypeExpense, "10", testTime(0))

		updated, err := svc.UpdateTransaction(ctx, user.ID, txn.ID, TransactionInput{
			Type:          models.TransactionTypeIncome,
			Amount:        amount("250.005"),
			Notes:         "bonus",
			TransactionAt: testTime(5),
			CategoryID:    salary.ID,
		})
		testutil.AssertNoError(t, err)
		if updated.Category == nil || updated.Category.ID != salary.ID {
			t.Error("expected the new category attached")
		}

		stored, err := svc.GetTransactionByID(ctx, txn.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "250.01", stored.Amount)
		if stored.Type != models.TransactionTypeIncome || stored.Notes != "bonus" || stored.CategoryID != salary.ID {
			t.Errorf("update not persisted: %+v", stored)
		}
		if !stored.TransactionAt.Equal(testTime(5)) {
			t.Errorf("expected time %s, got %s", testTime(5), stored.TransactionAt)
		}
		if stored.OwnerID != user.ID {
			t.Error("owner must not change")
		}
	})

	t.Run("not_owned", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		def := testutil.CreateTestDefaultCategory(t, db, "Food")
		txn := testutil.CreateTestTransaction(t, db, owner.ID, def.ID, models.TransactionTypeExpense, "10", testTime(0))

		_, err := svc.UpdateTransaction(ctx, intruder.ID, txn.ID, expenseInput(def.ID, "20"))
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_OWNED")
	})

	t.Run("not_found", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		def := testutil.CreateTestDefaultCategory(t, db, "Food")

		_, err := svc.UpdateTransaction(ctx, user.ID, "missing", expenseInput(def.ID, "20"))
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("foreign_category", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		mine := testutil.CreateTestCategory(t, db, user.ID)
		theirs := testutil.CreateTestCategory(t, db, other.ID)
		txn := testutil.CreateTestTransaction(t, db, user.ID, mine.ID, models.TransactionTypeExpense, "10", testTime(0))

		_, err := svc.UpdateTransaction(ctx, user.ID, txn.ID, expenseInput(theirs.ID, "20"))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_OWNED")
	})

	t.Run("keeps_deleted_category", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		categories := NewCategoryService(s, DefaultCatalog)
		user := testutil.CreateTestUser(t, db)
		rent := testutil.CreateTestCategory(t, db, user.ID)
		txn := testutil.CreateTestTransaction(t, db, user.ID, rent.ID, models.TransactionTypeExpense, "10", testTime(0))
		testutil.AssertNoError(t, categories.DeleteCategory(ctx, user.ID, rent.ID))

		input := expenseInput(rent.ID, "10")
		input.Notes = "corrected"
		updated, err := svc.UpdateTransaction(ctx, user.ID, txn.ID, input)
		testutil.AssertNoError(t, err)
		if updated.CategoryID != rent.ID || updated.Notes != "corrected" {
			t.Errorf("unexpected update result: %+v", updated)
		}

		stored, err := svc.GetTransactionByID(ctx, txn.ID)
		testutil.AssertNoError(t, err)
		if stored.Notes != "corrected" {
			t.Errorf("expected notes persisted, got %q", stored.Notes)
		}
	})

	t.Run("moving_to_deleted_category", func(t *testing.T) {
		db, s := setupStore(t)
		svc := NewTransactionService(s)
		categories := NewCategoryService(s, DefaultCatalog)
		user := testutil.CreateTestUser(t, db)
		current := testutil.CreateTestCategory(t, db, user.ID)
		retired := testutil.CreateTestCategory(t, db, user.ID)
		txn := testutil.CreateTestTransaction(t, db, user.ID, current.ID, models.TransactionTypeExpense, "10", testTime(0))
		testutil.AssertNoError(t, categories.DeleteCategory(ctx, user.ID, retired.ID))

		_, err := svc.UpdateTransaction(ctx, user.ID, txn.ID, expenseInput(retired.ID, "10"))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	db, s := setupStore(t)
	svc := NewTransactionService(s)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	def := testutil.CreateTestDefaultCategory(t, db, "Food")
	txn := testutil.CreateTestTransaction(t, db, user.ID, def.ID, models.TransactionTypeExpense, "10", testTime(0))

	err := svc.DeleteTransaction(ctx, other.ID, txn.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_OWNED")

	testutil.AssertNoError(t, svc.DeleteTransaction(ctx, user.ID, txn.ID))

	_, err = svc.GetTransactionByID(ctx, txn.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

	err = svc.DeleteTransaction(ctx, user.ID, txn.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
