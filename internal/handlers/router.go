package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups the resource handlers mounted by RegisterRoutes
type Handlers struct {
	Auth     *AuthHandler
	Task     *TaskHandler
	Category *CategoryHandler
}

// RegisterRoutes mounts every endpoint. requireAuth guards the task and
// category routes; flow carries OAuth state for the sign-in routes.
func RegisterRoutes(r *gin.Engine, h Handlers, requireAuth, flow gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Priority Matrix API is running",
		})
	})

	auth := r.Group("/auth")
	{
		auth.GET("/providers", h.Auth.Providers)
		auth.GET("/signin/:provider", flow, h.Auth.SignIn)
		auth.GET("/callback/:provider", flow, h.Auth.Callback)
		auth.GET("/session", h.Auth.Session)
		auth.POST("/signout", h.Auth.SignOut)
	}

	tasks := r.Group("/task")
	tasks.Use(requireAuth)
	{
		tasks.GET("", h.Task.ListTasks)
		tasks.POST("", h.Task.CreateTask)
		tasks.PATCH("/:taskId", h.Task.UpdateTask)
		tasks.DELETE("/:taskId", h.Task.DeleteTask)
	}

	categories := r.Group("/category")
	categories.Use(requireAuth)
	{
		categories.GET("", h.Category.ListCategories)
		categories.POST("", h.Category.CreateCategory)
		categories.PATCH("/:categoryId", h.Category.UpdateCategory)
		categories.DELETE("/:categoryId", h.Category.DeleteCategory)
	}
}
