package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/priority-matrix-api/internal/dto"
	apierrors "github.com/yukikurage/priority-matrix-api/internal/errors"
	"github.com/yukikurage/priority-matrix-api/internal/middleware"
	"github.com/yukikurage/priority-matrix-api/internal/services"
)

// CategoryHandler exposes the current user's categories.
type CategoryHandler struct {
	categoryService *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// ListCategories returns the current user's categories ordered by name.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), userID)
	if err != nil {
		respondCategoryError(c, err, "fetch")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTOs(categories))
}

// CreateCategory creates a category owned by the current user.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateCategoryInput{
		OwnerID: userID,
		Color:   req.Color,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), input)
	if err != nil {
		respondCategoryError(c, err, "create")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCategoryDTO(*category))
}

// UpdateCategory renames or recolors a category of the current user.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), userID, c.Param("categoryId"), services.UpdateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondCategoryError(c, err, "update")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*category))
}

// DeleteCategory removes a category of the current user.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), userID, c.Param("categoryId")); err != nil {
		respondCategoryError(c, err, "delete")
		return
	}

	c.Status(http.StatusNoContent)
}

func respondCategoryError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, "Category not found or unauthorized")
	case errors.Is(err, services.ErrNameRequired):
		apierrors.BadRequest(c, "Name is required")
	case errors.Is(err, services.ErrNoCategoryFields):
		apierrors.BadRequest(c, "Name or color is required")
	case errors.Is(err, services.ErrNameEmpty):
		apierrors.BadRequest(c, "Name cannot be empty")
	default:
		log.Printf("category %s failed: %v", action, err)
		if action == "fetch" {
			apierrors.InternalError(c, "Failed to fetch categories")
			return
		}
		apierrors.InternalError(c, fmt.Sprintf("Failed to %s category", action))
	}
}
