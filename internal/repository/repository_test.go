package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/priority-matrix-api/internal/database"
	"github.com/yukikurage/priority-matrix-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
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
	require.NoError(t, database.AddIndexes(db))

	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	return db, mock
}

func TestTaskRepository_DeleteOwnedIsSingleFilteredStatement(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `tasks` WHERE id = ? AND user_id = ?")).
		WithArgs("task-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	count, err := repo.DeleteOwned(context.Background(), "user-1", "task-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdateOwnedIsSingleFilteredStatement(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tasks` SET `quadrant`=\\?,`updated_at`=\\? WHERE id = \\? AND user_id = \\?").
		WithArgs("Q1", sqlmock.AnyArg(), "task-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	count, err := repo.UpdateOwned(context.Background(), "user-1", "task-1", map[string]interface{}{
		"quadrant": models.QuadrantUrgentImportant,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_DeleteOwnedIsSingleFilteredStatement(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `categories` WHERE id = ? AND user_id = ?")).
		WithArgs("cat-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	count, err := repo.DeleteOwned(context.Background(), "user-1", "cat-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_UpdateOwnedIsSingleFilteredStatement(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `categories` SET `color`=\\?,`updated_at`=\\? WHERE id = \\? AND user_id = \\?").
		WithArgs("#00FF00", sqlmock.AnyArg(), "cat-1", "user-2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	count, err := repo.UpdateOwned(context.Background(), "user-2", "cat-1", map[string]interface{}{
		"color": "#00FF00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnedBy_EmptyOwnerMatchesNothing(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Work", UserID: "user-1"}))

	categories, err := repo.ListByOwner(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestCategoryRepository_OwnershipScoping(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	work := &models.Category{Name: "Work", UserID: "user-1"}
	home := &models.Category{Name: "Home", UserID: "user-1"}
	other := &models.Category{Name: "Other", UserID: "user-2"}
	for _, c := range []*models.Category{work, home, other} {
		require.NoError(t, repo.Create(ctx, c))
		require.NotEmpty(t, c.ID)
	}

	categories, err := repo.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Home", categories[0].Name)
	assert.Equal(t, "Work", categories[1].Name)

	_, err = repo.FindOwned(ctx, "user-2", work.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := repo.UpdateOwned(ctx, "user-2", work.ID, map[string]interface{}{"name": "Hijacked"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = repo.DeleteOwned(ctx, "user-2", work.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	stored, err := repo.FindOwned(ctx, "user-1", work.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", stored.Name)
}

func TestTaskRepository_ListByOwner(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewTaskRepository(db)
	categories := NewCategoryRepository(db)
	ctx := context.Background()

	mine := &models.Category{Name: "Mine", UserID: "user-1"}
	foreign := &models.Category{Name: "Foreign", UserID: "user-2"}
	require.NoError(t, categories.Create(ctx, mine))
	require.NoError(t, categories.Create(ctx, foreign))

	older := &models.Task{Title: "Older", UserID: "user-1", Quadrant: models.DefaultQuadrant, CategoryID: &mine.ID}
	require.NoError(t, repo.Create(ctx, older))
	db.Model(older).UpdateColumn("created_at", time.Now().UTC().Add(-time.Hour))

	newer := &models.Task{Title: "Newer", UserID: "user-1", Quadrant: models.QuadrantUrgent, CategoryID: &foreign.ID}
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, &models.Task{Title: "Not mine", UserID: "user-2", Quadrant: models.DefaultQuadrant}))

	tasks, err := repo.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "Newer", tasks[0].Title)
	assert.Nil(t, tasks[0].Category, "a category owned by someone else must not be joined")

	assert.Equal(t, "Older", tasks[1].Title)
	require.NotNil(t, tasks[1].Category)
	assert.Equal(t, "Mine", tasks[1].Category.Name)
}

func TestTaskRepository_UpdateOwnedClearsNullableColumns(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	due := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	categoryID := "cat-1"
	task := &models.Task{Title: "Ship release", UserID: "user-1", Quadrant: models.DefaultQuadrant, DueDate: &due, CategoryID: &categoryID}
	require.NoError(t, repo.Create(ctx, task))

	count, err := repo.UpdateOwned(ctx, "user-1", task.ID, map[string]interface{}{
		"due_date":    nil,
		"category_id": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := repo.FindOwned(ctx, "user-1", task.ID, true)
	require.NoError(t, err)
	assert.Nil(t, stored.DueDate)
	assert.Nil(t, stored.CategoryID)
	assert.Nil(t, stored.Category)
	assert.Equal(t, "Ship release", stored.Title)
}

func TestTaskRepository_DeleteOwnedTwice(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := &models.Task{Title: "Gone", UserID: "user-1", Quadrant: models.DefaultQuadrant}
	require.NoError(t, repo.Create(ctx, task))

	count, err := repo.DeleteOwned(ctx, "user-1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.DeleteOwned(ctx, "user-1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUserRepository_CreateWithAccount(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	email := "ada@example.com"
	user := &models.User{Name: "Ada", Email: &email}
	account := &models.Account{Provider: "github", ProviderAccountID: "42"}
	require.NoError(t, repo.CreateWithAccount(ctx, user, account))
	assert.Equal(t, user.ID, account.UserID)

	found, err := repo.FindAccount(ctx, "github", "42")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	byEmail, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindAccount(ctx, "google", "42")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
