package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/priority-matrix-api/internal/constants"
	"github.com/yukikurage/priority-matrix-api/internal/models"
	"github.com/yukikurage/priority-matrix-api/internal/repository"
	"github.com/yukikurage/priority-matrix-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found or unauthorized")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleEmpty         = errors.New("title cannot be empty")
	ErrInvalidQuadrant    = errors.New("quadrant must be one of Q1, Q2, Q3, Q4")
	ErrInvalidDueDate     = errors.New("dueDate must be a valid date")
	ErrInvalidCompletedAt = errors.New("completedAt must be a valid date")
	ErrInvalidTaskPayload = errors.New("invalid task payload")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents input for creating a task.
// OwnerID always comes from the session, never from the payload.
type CreateTaskInput struct {
	OwnerID     string
	Title       string
	Description string
	DueDate     *string
	CategoryID  *string
	Quadrant    *string
	Position    *int
}

// UpdateTaskInput represents a partial update. Nil pointers leave the field
// untouched; the Clear flags set the nullable columns to NULL.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Quadrant    *string
	Position    *int
	Completed   *bool

	DueDate          *string
	ClearDueDate     bool
	CategoryID       *string
	ClearCategory    bool
	CompletedAt      *string
	ClearCompletedAt bool

	// PayloadErr holds a field decoding failure. It is reported only after
	// ownership has been established.
	PayloadErr error
}

// ListTasks returns the owner's tasks with their category, newest first
func (s *TaskService) ListTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask validates the input and stores a new task in the owner's matrix
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	quadrant := models.DefaultQuadrant
	if input.Quadrant != nil && *input.Quadrant != "" {
		q, err := parseQuadrant(*input.Quadrant)
		if err != nil {
			return nil, err
		}
		quadrant = q
	}

	position := constants.DefaultTaskPosition
	if input.Position != nil {
		position = *input.Position
	}

	var dueDate *time.Time
	if input.DueDate != nil && *input.DueDate != "" {
		parsed, err := utils.ParseTimestamp(*input.DueDate)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		dueDate = &parsed
	}

	var categoryID *string
	if input.CategoryID != nil && *input.CategoryID != "" {
		id := *input.CategoryID
		categoryID = &id
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Quadrant:    quadrant,
		Position:    position,
		DueDate:     dueDate,
		CategoryID:  categoryID,
		UserID:      input.OwnerID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.taskRepo.FindOwned(ctx, input.OwnerID, task.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	return created, nil
}

// UpdateTask applies a partial update to an owned task. Ownership is probed
// before the payload is looked at, so a foreign task is reported as missing
// even when the payload is invalid.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(ctx, ownerID, taskID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.PayloadErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTaskPayload, input.PayloadErr)
	}

	fields, err := buildTaskUpdate(input)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		// The owner predicate stays on the write as well
		count, err := s.taskRepo.UpdateOwned(ctx, ownerID, task.ID, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
		if count == 0 {
			return nil, ErrTaskNotFound
		}
	}

	updated, err := s.taskRepo.FindOwned(ctx, ownerID, task.ID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	return updated, nil
}

// DeleteTask removes an owned task
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	count, err := s.taskRepo.DeleteOwned(ctx, ownerID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if count == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// buildTaskUpdate maps the fields present in input to column assignments.
// completed and completed_at are independent; neither sets the other.
func buildTaskUpdate(input UpdateTaskInput) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Quadrant != nil {
		q, err := parseQuadrant(*input.Quadrant)
		if err != nil {
			return nil, err
		}
		fields["quadrant"] = q
	}
	if input.Position != nil {
		fields["position"] = *input.Position
	}
	if input.Completed != nil {
		fields["completed"] = *input.Completed
	}

	if input.ClearDueDate {
		fields["due_date"] = nil
	} else if input.DueDate != nil {
		parsed, err := utils.ParseTimestamp(*input.DueDate)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		fields["due_date"] = parsed
	}

	if input.ClearCategory {
		fields["category_id"] = nil
	} else if input.CategoryID != nil {
		if *input.CategoryID == "" {
			fields["category_id"] = nil
		} else {
			fields["category_id"] = *input.CategoryID
		}
	}

	if input.ClearCompletedAt {
		fields["completed_at"] = nil
	} else if input.CompletedAt != nil {
		parsed, err := utils.ParseTimestamp(*input.CompletedAt)
		if err != nil {
			return nil, ErrInvalidCompletedAt
		}
		fields["completed_at"] = parsed
	}

	return fields, nil
}

func parseQuadrant(value string) (models.Quadrant, error) {
	q := models.Quadrant(value)
	if !q.Valid() {
		return "", ErrInvalidQuadrant
	}
	return q, nil
}
