package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/priority-matrix-api/internal/models"
	"github.com/yukikurage/priority-matrix-api/internal/oauth"
	"github.com/yukikurage/priority-matrix-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidIdentity     = errors.New("provider identity is missing an account id")
	ErrAccountNotLinked    = errors.New("email is already used by another account")
	ErrUserNotFound        = errors.New("user not found")
	ErrFailedToCreateUser  = errors.New("failed to create user")
	ErrFailedToLinkAccount = errors.New("failed to link provider account")
)

// LinkingPolicy decides how a first-time provider identity is matched to an existing user.
type LinkingPolicy struct {
	// LinkUnconditionally attaches the identity to the user that already
	// owns its email address instead of refusing the sign-in.
	LinkUnconditionally bool
}

// AuthService handles OAuth sign-in and user lookup.
type AuthService struct {
	userRepo repository.UserRepository
	policy   LinkingPolicy
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, policy LinkingPolicy) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		policy:   policy,
	}
}

// SignIn resolves a provider identity to a local user, linking or
// creating one on first sign-in.
func (s *AuthService) SignIn(ctx context.Context, provider string, identity *oauth.Identity) (*models.User, error) {
	if identity == nil || identity.ProviderAccountID == "" || provider == "" {
		return nil, ErrInvalidIdentity
	}

	account, err := s.userRepo.FindAccount(ctx, provider, identity.ProviderAccountID)
	if err == nil {
		return s.GetUser(ctx, account.UserID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	newAccount := &models.Account{
		Provider:          provider,
		ProviderAccountID: identity.ProviderAccountID,
	}

	email := strings.TrimSpace(strings.ToLower(identity.Email))
	if email != "" {
		existing, err := s.userRepo.FindByEmail(ctx, email)
		switch {
		case err == nil:
			if !s.policy.LinkUnconditionally {
				return nil, ErrAccountNotLinked
			}
			newAccount.UserID = existing.ID
			if err := s.userRepo.CreateAccount(ctx, newAccount); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFailedToLinkAccount, err)
			}
			return existing, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to find user by email: %w", err)
		}
	}

	user := &models.User{
		Name:  identity.Name,
		Image: identity.Image,
	}
	if email != "" {
		user.Email = &email
	}

	if err := s.userRepo.CreateWithAccount(ctx, user, newAccount); err != nil {
		switch {
		case errors.Is(err, repository.ErrCreateUser):
			return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
		case errors.Is(err, repository.ErrCreateAccount):
			return nil, fmt.Errorf("%w: %v", ErrFailedToLinkAccount, err)
		default:
			return nil, fmt.Errorf("failed to complete sign-in: %w", err)
		}
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
