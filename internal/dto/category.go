package dto

import (
	"time"

	"github.com/yukikurage/priority-matrix-api/internal/models"
)

// CategoryRequest is the POST and PATCH /category payload
type CategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToCategoryDTO converts a Category model to CategoryDTO
func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		UserID:    category.UserID,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// ToCategoryDTOs converts a slice of categories, never returning nil
func ToCategoryDTOs(categories []models.Category) []CategoryDTO {
	items := make([]CategoryDTO, len(categories))
	for i, category := range categories {
		items[i] = ToCategoryDTO(category)
	}
	return items
}
