package dto

import (
	"time"

	"github.com/yukikurage/priority-matrix-api/internal/models"
)

// CreateTaskRequest is the POST /task payload
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"dueDate"`
	CategoryID  *string `json:"categoryId"`
	Quadrant    *string `json:"quadrant"`
	Position    *int    `json:"position"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Quadrant    models.Quadrant `json:"quadrant"`
	Position    int             `json:"position"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completedAt"`
	DueDate     *time.Time      `json:"dueDate"`
	CategoryID  *string         `json:"categoryId"`
	Category    *CategoryDTO    `json:"category"`
	UserID      string          `json:"userId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Quadrant:    task.Quadrant,
		Position:    task.Position,
		Completed:   task.Completed,
		CompletedAt: task.CompletedAt,
		DueDate:     task.DueDate,
		CategoryID:  task.CategoryID,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Only present when the category was preloaded and is owned by the same user
	if task.Category != nil {
		category := ToCategoryDTO(*task.Category)
		dto.Category = &category
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
