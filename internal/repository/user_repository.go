package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/priority-matrix-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the sign-in transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateAccount is returned when linking the provider account fails inside the sign-in transaction.
	ErrCreateAccount = errors.New("user repository: create account failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email address
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAccount finds the account linked to a provider identity
func (r *GormUserRepository) FindAccount(ctx context.Context, provider, providerAccountID string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateAccount links a provider identity to an existing user
func (r *GormUserRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// CreateWithAccount creates a user and the linked account atomically.
func (r *GormUserRepository) CreateWithAccount(ctx context.Context, user *models.User, account *models.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		account.UserID = user.ID

		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateAccount, err)
		}

		return nil
	})
}
