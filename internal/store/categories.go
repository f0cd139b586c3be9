package store

import (
	"context"

	"gorm.io/gorm"

	"fintrack/internal/models"
)

type categoryStore struct {
	db *gorm.DB
}

func (s *categoryStore) Create(ctx context.Context, category *models.Category) error {
	return translate(s.db.WithContext(ctx).Create(category).Error)
}

func (s *categoryStore) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *categoryStore) GetByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (s *categoryStore) ListVisible(ctx context.Context, userID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("owner_id = ? OR is_default = ?", userID, true).
		Order("name ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (s *categoryStore) ListDefaults(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).
		Where("is_active = ? AND is_default = ?", true, true).
		Order("name ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (s *categoryStore) NameTaken(ctx context.Context, userID, name, excludeID string) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("is_active = ? AND name = ?", true, name).
		Where("(owner_id = ? AND is_default = ?) OR is_default = ?", userID, false, true)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (s *categoryStore) SharedNames(ctx context.Context) (map[string]bool, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("is_default = ? OR owner_id IS NULL", true).
		Pluck("name", &names).Error; err != nil {
		return nil, translate(err)
	}

	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set, nil
}

func (s *categoryStore) UpdateDetails(ctx context.Context, category *models.Category) error {
	result := s.db.WithContext(ctx).Model(category).
		Select("name", "description", "icon", "color").
		Updates(category)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *categoryStore) Deactivate(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
