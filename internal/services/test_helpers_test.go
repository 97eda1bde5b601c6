package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/priority-matrix-api/internal/database"
	"github.com/yukikurage/priority-matrix-api/internal/models"
	"github.com/yukikurage/priority-matrix-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	// Every connection to :memory: opens a fresh database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.AutoMigrate(db))

	return db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

var errStoreDown = errors.New("connection refused")

// failingTaskRepo fails every call so store errors can be checked at the service boundary
type failingTaskRepo struct {
	calls int
}

func (r *failingTaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	r.calls++
	return nil, errStoreDown
}

func (r *failingTaskRepo) Create(ctx context.Context, task *models.Task) error {
	r.calls++
	return errStoreDown
}

func (r *failingTaskRepo) FindOwned(ctx context.Context, ownerID, id string, withCategory bool) (*models.Task, error) {
	r.calls++
	return nil, errStoreDown
}

func (r *failingTaskRepo) UpdateOwned(ctx context.Context, ownerID, id string, fields map[string]interface{}) (int64, error) {
	r.calls++
	return 0, errStoreDown
}

func (r *failingTaskRepo) DeleteOwned(ctx context.Context, ownerID, id string) (int64, error) {
	r.calls++
	return 0, errStoreDown
}

var _ repository.TaskRepository = (*failingTaskRepo)(nil)
