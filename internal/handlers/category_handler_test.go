package handlers

import (
	"context"
	"net/http"
	"testing"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"

	"github.com/gin-gonic/gin"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn        func(userID string, details models.CategoryDetails) (*models.Category, error)
	listVisibleCategoriesFn func(userID string) ([]models.Category, error)
	getCategoryByIDFn       func(categoryID string) (*models.Category, error)
	updateCategoryFn        func(userID, categoryID string, details models.CategoryDetails) (*models.Category, error)
	deleteCategoryFn        func(userID, categoryID string) error
	listDefaultCategoriesFn func() ([]models.Category, error)
	seedDefaultCategoriesFn func() (int, error)
}

func (m *mockCategoryService) CreateCategory(_ context.Context, userID string, details models.CategoryDetails) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, details)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) ListVisibleCategories(_ context.Context, userID string) ([]models.Category, error) {
	if m.listVisibleCategoriesFn != nil {
		return m.listVisibleCategoriesFn(userID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(_ context.Context, categoryID string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(_ context.Context, userID, categoryID string, details models.CategoryDetails) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, details)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(_ context.Context, userID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

func (m *mockCategoryService) ListDefaultCategories(_ context.Context) ([]models.Category, error) {
	if m.listDefaultCategoriesFn != nil {
		return m.listDefaultCategoriesFn()
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) SeedDefaultCategories(_ context.Context) (int, error) {
	if m.seedDefaultCategoriesFn != nil {
		return m.seedDefaultCategoriesFn()
	}
	return 0, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	r.GET("/categories/defaults", handler.ListDefaultCategories)
	r.POST("/categories/defaults/seed", handler.SeedDefaultCategories)
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/categories", handler.CreateCategory)
	auth.GET("/categories", handler.ListCategories)
	auth.GET("/categories/:id", handler.GetCategory)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotUser string
		catSvc := &mockCategoryService{
			createCategoryFn: func(userID string, d models.CategoryDetails) (*models.Category, error) {
				gotUser = userID
				return models.NewUserCategory(userID, d), nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "POST", "/categories", `{"name":"Food","icon":"restaurant","color":"#FF0000"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUser != testUserID {
			t.Errorf("expected caller %s passed to service, got %s", testUserID, gotUser)
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["name"] != "Food" || cat["is_default"] != false {
			t.Errorf("unexpected category %v", cat)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{"icon":"x"}`},
		{name: "blank name", body: `{"name":"   "}`},
		{name: "name too short", body: `{"name":"F"}`},
		{name: "invalid color", body: `{"name":"Food","color":"red"}`},
		{name: "malformed json", body: `{"name":`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

			rec := doRequest(r, "POST", "/categories", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 400 on duplicate name", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(string, models.CategoryDetails) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategoryName
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "POST", "/categories", `{"name":"Food"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY_NAME")
	})

	t.Run("returns 404 on unknown user", func(t *testing.T) {
		catSvc := &mockCategoryService{
			createCategoryFn: func(string, models.CategoryDetails) (*models.Category, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "POST", "/categories", `{"name":"Food"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_ListCategories(t *testing.T) {
	catSvc := &mockCategoryService{
		listVisibleCategoriesFn: func(string) ([]models.Category, error) {
			return []models.Category{{Name: "Food"}, {Name: "Travel"}}, nil
		},
	}
	r := setupCategoryRouter(NewCategoryHandler(catSvc))

	rec := doRequest(r, "GET", "/categories", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	list := parseJSON(t, rec)["categories"].([]interface{})
	if len(list) != 2 {
		t.Errorf("expected 2 categories, got %d", len(list))
	}
}

func TestCategoryHandler_Defaults(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		catSvc := &mockCategoryService{
			listDefaultCategoriesFn: func() ([]models.Category, error) {
				return []models.Category{*models.NewDefaultCategory(models.CategoryDetails{Name: "Food"})}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "GET", "/categories/defaults", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		list := parseJSON(t, rec)["categories"].([]interface{})
		if len(list) != 1 {
			t.Errorf("expected 1 default, got %d", len(list))
		}
	})

	t.Run("seed", func(t *testing.T) {
		catSvc := &mockCategoryService{
			seedDefaultCategoriesFn: func() (int, error) { return 3, nil },
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "POST", "/categories/defaults/seed", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := parseJSON(t, rec)["inserted"]; got != float64(3) {
			t.Errorf("expected 3 inserted, got %v", got)
		}
	})

	t.Run("seed store unavailable", func(t *testing.T) {
		catSvc := &mockCategoryService{
			seedDefaultCategoriesFn: func() (int, error) { return 0, apperrors.ErrStoreUnavailable },
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "POST", "/categories/defaults/seed", "")

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_GetCategory(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		catSvc := &mockCategoryService{
			getCategoryByIDFn: func(id string) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: id}, Name: "Food"}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "GET", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["id"] != testCategoryID {
			t.Errorf("expected id %s, got %v", testCategoryID, cat["id"])
		}
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "GET", "/categories/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		catSvc := &mockCategoryService{
			getCategoryByIDFn: func(string) (*models.Category, error) { return nil, apperrors.ErrCategoryNotFound },
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "GET", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		catSvc := &mockCategoryService{
			updateCategoryFn: func(userID, categoryID string, d models.CategoryDetails) (*models.Category, error) {
				cat := models.NewUserCategory(userID, d)
				cat.ID = categoryID
				return cat, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "PUT", "/categories/"+testCategoryID, `{"name":"Groceries"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["name"] != "Groceries" {
			t.Errorf("expected Groceries, got %v", cat["name"])
		}
	})

	for _, sentinel := range []*apperrors.AppError{apperrors.ErrDefaultCategoryImmutable, apperrors.ErrCategoryNotOwned} {
		t.Run("returns 400 on "+sentinel.Code, func(t *testing.T) {
			catSvc := &mockCategoryService{
				updateCategoryFn: func(string, string, models.CategoryDetails) (*models.Category, error) {
					return nil, sentinel
				},
			}
			r := setupCategoryRouter(NewCategoryHandler(catSvc))

			rec := doRequest(r, "PUT", "/categories/"+testCategoryID, `{"name":"Groceries"}`)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), sentinel.Code)
		})
	}
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		var gotID string
		catSvc := &mockCategoryService{
			deleteCategoryFn: func(_, categoryID string) error {
				gotID = categoryID
				return nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "DELETE", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if gotID != testCategoryID {
			t.Errorf("expected %s, got %s", testCategoryID, gotID)
		}
	})

	t.Run("returns 404 on second delete", func(t *testing.T) {
		catSvc := &mockCategoryService{
			deleteCategoryFn: func(string, string) error { return apperrors.ErrCategoryNotFound },
		}
		r := setupCategoryRouter(NewCategoryHandler(catSvc))

		rec := doRequest(r, "DELETE", "/categories/"+testCategoryID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_MissingUser(t *testing.T) {
	handler := NewCategoryHandler(&mockCategoryService{})
	r := gin.New()
	r.GET("/categories", handler.ListCategories)

	rec := doRequest(r, "GET", "/categories", "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "MISSING_USER")
}
