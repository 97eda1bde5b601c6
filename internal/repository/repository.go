package repository

import (
	"context"

	"github.com/yukikurage/priority-matrix-api/internal/models"
)

// Every method that reads or mutates an existing task or category takes the
// owner ID as a mandatory argument and folds it into the same statement.

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// ListByOwner returns the owner's tasks, newest first, with their category
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)

	// Create inserts a new task
	Create(ctx context.Context, task *models.Task) error

	// FindOwned finds a task by ID, only if it belongs to ownerID
	FindOwned(ctx context.Context, ownerID, id string, withCategory bool) (*models.Task, error)

	// UpdateOwned applies a partial update keyed on (id, ownerID) and
	// reports how many rows matched
	UpdateOwned(ctx context.Context, ownerID, id string, fields map[string]interface{}) (int64, error)

	// DeleteOwned deletes a task keyed on (id, ownerID) and reports how many rows matched
	DeleteOwned(ctx context.Context, ownerID, id string) (int64, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// ListByOwner returns the owner's categories ordered by name
	ListByOwner(ctx context.Context, ownerID string) ([]models.Category, error)

	// Create inserts a new category
	Create(ctx context.Context, category *models.Category) error

	// FindOwned finds a category by ID, only if it belongs to ownerID
	FindOwned(ctx context.Context, ownerID, id string) (*models.Category, error)

	// UpdateOwned applies a partial update keyed on (id, ownerID) and
	// reports how many rows matched
	UpdateOwned(ctx context.Context, ownerID, id string, fields map[string]interface{}) (int64, error)

	// DeleteOwned deletes a category keyed on (id, ownerID) and reports how many rows matched
	DeleteOwned(ctx context.Context, ownerID, id string) (int64, error)
}

// UserRepository defines the interface for user and linked account data access
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email address
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindAccount finds the account linked to a provider identity
	FindAccount(ctx context.Context, provider, providerAccountID string) (*models.Account, error)

	// CreateAccount links a provider identity to an existing user
	CreateAccount(ctx context.Context, account *models.Account) error

	// CreateWithAccount creates a user and its first linked account in a single transaction
	CreateWithAccount(ctx context.Context, user *models.User, account *models.Account) error
}
