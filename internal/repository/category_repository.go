package repository

import (
	"context"

	"github.com/yukikurage/priority-matrix-api/internal/database"
	"github.com/yukikurage/priority-matrix-api/internal/models"
	"gorm.io/gorm"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// ListByOwner returns the owner's categories ordered by name
func (r *GormCategoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(ownerID)).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Create creates a new category
func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// FindOwned finds a category by ID scoped to its owner
func (r *GormCategoryRepository) FindOwned(ctx context.Context, ownerID, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).
		Scopes(database.ByID(id), database.OwnedBy(ownerID)).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateOwned applies a partial update in a single filtered statement
func (r *GormCategoryRepository) UpdateOwned(ctx context.Context, ownerID, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Scopes(database.ByID(id), database.OwnedBy(ownerID)).
		Updates(fields)

	return result.RowsAffected, result.Error
}

// DeleteOwned deletes a category in a single filtered statement.
// Tasks pointing at it keep their category_id.
func (r *GormCategoryRepository) DeleteOwned(ctx context.Context, ownerID, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Scopes(database.ByID(id), database.OwnedBy(ownerID)).
		Delete(&models.Category{})

	return result.RowsAffected, result.Error
}
