package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/priority-matrix-api/internal/models"
	"github.com/yukikurage/priority-matrix-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrNameEmpty        = errors.New("name cannot be empty")
	ErrNoCategoryFields = errors.New("name or color is required")
	ErrCategoryNotFound = errors.New("category not found or unauthorized")
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
	}
}

// CreateCategoryInput represents input for creating a category
type CreateCategoryInput struct {
	OwnerID string
	Name    string
	Color   *string
}

// UpdateCategoryInput represents input for updating a category.
// Nil fields are left untouched.
type UpdateCategoryInput struct {
	Name  *string
	Color *string
}

// ListCategories returns every category of the owner ordered by name
func (s *CategoryService) ListCategories(ctx context.Context, ownerID string) ([]models.Category, error) {
	categories, err := s.categoryRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a category owned by input.OwnerID
func (s *CategoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	category := &models.Category{
		Name:   name,
		Color:  input.Color,
		UserID: input.OwnerID,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// UpdateCategory changes the name and/or color of an owned category
func (s *CategoryService) UpdateCategory(ctx context.Context, ownerID, categoryID string, input UpdateCategoryInput) (*models.Category, error) {
	hasName := input.Name != nil && *input.Name != ""
	hasColor := input.Color != nil && *input.Color != ""
	if !hasName && !hasColor {
		return nil, ErrNoCategoryFields
	}

	fields := make(map[string]interface{}, 2)
	if hasName {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameEmpty
		}
		fields["name"] = name
	}
	if hasColor {
		fields["color"] = *input.Color
	}

	count, err := s.categoryRepo.UpdateOwned(ctx, ownerID, categoryID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	if count == 0 {
		return nil, ErrCategoryNotFound
	}

	category, err := s.categoryRepo.FindOwned(ctx, ownerID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to reload category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes an owned category. Tasks tagged with it are not modified.
func (s *CategoryService) DeleteCategory(ctx context.Context, ownerID, categoryID string) error {
	count, err := s.categoryRepo.DeleteOwned(ctx, ownerID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
