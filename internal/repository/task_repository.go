package repository

import (
	"context"

	"github.com/yukikurage/priority-matrix-api/internal/database"
	"github.com/yukikurage/priority-matrix-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// preloadOwnedCategory joins the category only when the task owner also owns it,
// so a foreign or deleted category id reads as "no category".
func preloadOwnedCategory(db *gorm.DB, ownerID string) *gorm.DB {
	return db.Preload("Category", database.OwnedBy(ownerID))
}

// ListByOwner returns the owner's tasks, newest first
func (r *GormTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	var tasks []models.Task
	query := r.db.WithContext(ctx).Scopes(database.OwnedBy(ownerID))

	if err := preloadOwnedCategory(query, ownerID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindOwned finds a task by ID scoped to its owner
func (r *GormTaskRepository) FindOwned(ctx context.Context, ownerID, id string, withCategory bool) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx).Scopes(database.ByID(id), database.OwnedBy(ownerID))

	if withCategory {
		query = preloadOwnedCategory(query, ownerID)
	}

	if err := query.First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// UpdateOwned applies a partial update in a single filtered statement
func (r *GormTaskRepository) UpdateOwned(ctx context.Context, ownerID, id string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.ByID(id), database.OwnedBy(ownerID)).
		Updates(fields)

	return result.RowsAffected, result.Error
}

// DeleteOwned deletes a task in a single filtered statement
func (r *GormTaskRepository) DeleteOwned(ctx context.Context, ownerID, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Scopes(database.ByID(id), database.OwnedBy(ownerID)).
		Delete(&models.Task{})

	return result.RowsAffected, result.Error
}
