package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/metrics"
	"fintrack/internal/models"
	"fintrack/internal/store"
	"fintrack/internal/validator"
)

const (
	minCategoryNameLen    = 2
	maxCategoryNameLen    = 50
	maxCategoryDescLen    = 255
	maxCategoryIconLen    = 50
	categoryMetricsEntity = "category"
)

// categoryService handles category ownership rules and default seeding.
type categoryService struct {
	store   store.Store
	catalog []models.CategoryDetails
	log     *zap.SugaredLogger
}

// NewCategoryService creates a new CategoryServicer. catalog is the set of
// default categories reconciled by SeedDefaultCategories.
func NewCategoryService(s store.Store, catalog []models.CategoryDetails) CategoryServicer {
	return &categoryService{store: s, catalog: catalog, log: logger.Named("categories")}
}

// CreateCategory creates a category owned by userID.
func (s *categoryService) CreateCategory(ctx context.Context, userID string, details models.CategoryDetails) (cat *models.Category, err error) {
	defer func() { metrics.RecordOperation(categoryMetricsEntity, "create", err) }()

	d, err := normalizeCategoryDetails(details)
	if err != nil {
		return nil, err
	}
	if _, err := resolveUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, userID, d.Name, ""); err != nil {
		return nil, err
	}

	cat = models.NewUserCategory(userID, d)
	if err := s.store.Categories().Create(ctx, cat); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateCategoryName
		}
		return nil, storeError(err, apperrors.ErrCategoryNotFound)
	}

	s.log.Infow("category created", "category_id", cat.ID, "user_id", userID, "name", cat.Name)
	return cat, nil
}

// ListVisibleCategories returns the user's active categories plus the active defaults.
func (s *categoryService) ListVisibleCategories(ctx context.Context, userID string) ([]models.Category, error) {
	if _, err := resolveUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	categories, err := s.store.Categories().ListVisible(ctx, userID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrCategoryNotFound)
	}
	return categories, nil
}

// GetCategoryByID returns a category whatever its owner or state.
func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID string) (*models.Category, error) {
	cat, err := s.store.Categories().GetByID(ctx, categoryID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrCategoryNotFound)
	}
	return cat, nil
}

// UpdateCategory rewrites the editable fields of a category owned by userID.
func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID string, details models.CategoryDetails) (cat *models.Category, err error) {
	defer func() { metrics.RecordOperation(categoryMetricsEntity, "update", err) }()

	cat, err = s.mutableCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	d, err := normalizeCategoryDetails(details)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, userID, d.Name, cat.ID); err != nil {
		return nil, err
	}

	cat.Apply(d)
	if err := s.store.Categories().UpdateDetails(ctx, cat); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateCategoryName
		}
		return nil, storeError(err, apperrors.ErrCategoryNotFound)
	}

	s.log.Infow("category updated", "category_id", cat.ID, "user_id", userID)
	return cat, nil
}

// DeleteCategory soft-deletes a category owned by userID. Transactions that
// reference it are left untouched.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) (err error) {
	defer func() { metrics.RecordOperation(categoryMetricsEntity, "delete", err) }()

	cat, err := s.mutableCategory(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if err := s.store.Categories().Deactivate(ctx, cat.ID); err != nil {
		return storeError(err, apperrors.ErrCategoryNotFound)
	}

	s.log.Infow("category deactivated", "category_id", cat.ID, "user_id", userID)
	return nil
}

// ListDefaultCategories returns the active shared categories ordered by name.
func (s *categoryService) ListDefaultCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.Categories().ListDefaults(ctx)
	if err != nil {
		return nil, storeError(err, apperrors.ErrCategoryNotFound)
	}
	return categories, nil
}

// SeedDefaultCategories inserts every catalog entry whose name is not already
// used by a default or unowned category, and returns how many were inserted.
// Existing rows are never modified, so calling it repeatedly is safe.
func (s *categoryService) SeedDefaultCategories(ctx context.Context) (int, error) {
	existing, err := s.store.Categories().SharedNames(ctx)
	if err != nil {
		return 0, storeError(err, apperrors.ErrCategoryNotFound)
	}

	inserted := 0
	for _, d := range s.catalog {
		if existing[d.Name] {
			continue
		}
		if err := s.store.Categories().Create(ctx, models.NewDefaultCategory(d)); err != nil {
			// another instance seeded the same name first
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
			return inserted, storeError(err, apperrors.ErrCategoryNotFound)
		}
		existing[d.Name] = true
		inserted++
	}

	metrics.DefaultCategoriesSeeded(inserted)
	s.log.Infow("default categories reconciled", "inserted", inserted, "catalog_size", len(s.catalog))
	return inserted, nil
}

// mutableCategory resolves the user and an active category the user owns.
func (s *categoryService) mutableCategory(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	if _, err := resolveUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	cat, err := s.store.Categories().GetByID(ctx, categoryID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrCategoryNotFound)
	}
	if !cat.IsActive {
		return nil, apperrors.ErrCategoryNotFound
	}

	switch owner := cat.Ownership().(type) {
	case models.DefaultOwnership:
		return nil, apperrors.ErrDefaultCategoryImmutable
	case models.UserOwnership:
		if owner.UserID != userID {
			return nil, apperrors.ErrCategoryNotOwned
		}
		return cat, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("unknown category ownership"))
	}
}

func (s *categoryService) ensureNameFree(ctx context.Context, userID, name, excludeID string) error {
	taken, err := s.store.Categories().NameTaken(ctx, userID, name, excludeID)
	if err != nil {
		return storeError(err, apperrors.ErrCategoryNotFound)
	}
	if taken {
		return apperrors.ErrDuplicateCategoryName
	}
	return nil
}

// normalizeCategoryDetails trims the fields and checks their limits.
func normalizeCategoryDetails(d models.CategoryDetails) (models.CategoryDetails, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Icon = strings.TrimSpace(d.Icon)
	d.Color = strings.TrimSpace(d.Color)

	if n := utf8.RuneCountInString(d.Name); n < minCategoryNameLen || n > maxCategoryNameLen {
		return d, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name must be between 2 and 50 characters")
	}
	if utf8.RuneCountInString(d.Description) > maxCategoryDescLen {
		return d, apperrors.WithMessage(apperrors.ErrInvalidInput, "category description must be at most 255 characters")
	}
	if utf8.RuneCountInString(d.Icon) > maxCategoryIconLen {
		return d, apperrors.WithMessage(apperrors.ErrInvalidInput, "category icon must be at most 50 characters")
	}
	if d.Color != "" && !validator.IsHexColor(d.Color) {
		return d, apperrors.WithMessage(apperrors.ErrInvalidInput, "category color must be a hex color such as #FF9800")
	}
	return d, nil
}
