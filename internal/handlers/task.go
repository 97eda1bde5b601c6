package handlers

import (
	"encoding/json"
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

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all tasks of the current user with their category
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), userID)
	if err != nil {
		respondTaskError(c, err, "fetch")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a new task in the current user's matrix
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		Quadrant:    req.Quadrant,
		Position:    req.Position,
	})
	if err != nil {
		respondTaskError(c, err, "create")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Only keys present in the body are
// changed; null clears dueDate, categoryId and completedAt.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	// An unreadable body is reported only once ownership is established
	var input services.UpdateTaskInput
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		input.PayloadErr = err
	} else {
		input = decodeTaskPatch(raw)
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, c.Param("taskId"), input)
	if err != nil {
		respondTaskError(c, err, "update")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task of the current user
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), userID, c.Param("taskId")); err != nil {
		respondTaskError(c, err, "delete")
		return
	}

	c.Status(http.StatusNoContent)
}

// decodeTaskPatch maps a JSON object onto UpdateTaskInput. A null on a
// non-nullable field is ignored.
func decodeTaskPatch(raw map[string]json.RawMessage) services.UpdateTaskInput {
	var input services.UpdateTaskInput
	var errs []error

	decode := func(key string, dst interface{}) (present, null bool) {
		value, ok := raw[key]
		if !ok {
			return false, false
		}
		if isJSONNull(value) {
			return true, true
		}
		if err := json.Unmarshal(value, dst); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return true, false
	}

	var title, description, quadrant, dueDate, categoryID, completedAt string
	var position int
	var completed bool

	if present, null := decode("title", &title); present && !null {
		input.Title = &title
	}
	if present, null := decode("description", &description); present && !null {
		input.Description = &description
	}
	if present, null := decode("quadrant", &quadrant); present && !null {
		input.Quadrant = &quadrant
	}
	if present, null := decode("position", &position); present && !null {
		input.Position = &position
	}
	if present, null := decode("completed", &completed); present && !null {
		input.Completed = &completed
	}

	if present, null := decode("dueDate", &dueDate); present {
		input.ClearDueDate = null
		if !null {
			input.DueDate = &dueDate
		}
	}
	if present, null := decode("categoryId", &categoryID); present {
		input.ClearCategory = null
		if !null {
			input.CategoryID = &categoryID
		}
	}
	if present, null := decode("completedAt", &completedAt); present {
		input.ClearCompletedAt = null
		if !null {
			input.CompletedAt = &completedAt
		}
	}

	input.PayloadErr = errors.Join(errs...)
	return input
}

func isJSONNull(value json.RawMessage) bool {
	return string(value) == "null"
}

func respondTaskError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found or unauthorized")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, "Title is required")
	case errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequest(c, "Title cannot be empty")
	case errors.Is(err, services.ErrInvalidQuadrant):
		apierrors.BadRequest(c, "Quadrant must be one of Q1, Q2, Q3, Q4")
	case errors.Is(err, services.ErrInvalidDueDate):
		apierrors.BadRequest(c, "Invalid dueDate")
	case errors.Is(err, services.ErrInvalidCompletedAt):
		apierrors.BadRequest(c, "Invalid completedAt")
	case errors.Is(err, services.ErrInvalidTaskPayload):
		apierrors.BadRequest(c, "Invalid request body")
	default:
		log.Printf("task %s failed: %v", action, err)
		if action == "fetch" {
			apierrors.InternalError(c, "Failed to fetch tasks")
			return
		}
		apierrors.InternalError(c, fmt.Sprintf("Failed to %s task", action))
	}
}
