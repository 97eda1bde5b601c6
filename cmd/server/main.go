package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yukikurage/priority-matrix-api/internal/config"
	"github.com/yukikurage/priority-matrix-api/internal/database"
	"github.com/yukikurage/priority-matrix-api/internal/handlers"
	"github.com/yukikurage/priority-matrix-api/internal/middleware"
	"github.com/yukikurage/priority-matrix-api/internal/oauth"
	"github.com/yukikurage/priority-matrix-api/internal/repository"
	"github.com/yukikurage/priority-matrix-api/internal/services"
	"github.com/yukikurage/priority-matrix-api/internal/session"
)

func main() {
	// A missing .env file is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()
	taskService := services.NewTaskService(repository.NewTaskRepository(db))
	categoryService := services.NewCategoryService(repository.NewCategoryRepository(db))
	authService := services.NewAuthService(repository.NewUserRepository(db), services.LinkingPolicy{
		LinkUnconditionally: cfg.LinkAccountsUnconditionally,
	})

	tokenKey, err := session.DeriveKey(cfg.AuthSecret, session.PurposeSessionToken, 32)
	if err != nil {
		log.Fatalf("Failed to derive session key: %v", err)
	}
	flowAuthKey, err := session.DeriveKey(cfg.AuthSecret, session.PurposeFlowAuth, 32)
	if err != nil {
		log.Fatalf("Failed to derive flow key: %v", err)
	}
	flowCipherKey, err := session.DeriveKey(cfg.AuthSecret, session.PurposeFlowCipher, 32)
	if err != nil {
		log.Fatalf("Failed to derive flow key: %v", err)
	}

	isProduction := cfg.IsProduction()
	gateway := session.NewGateway(session.NewTokenManager(tokenKey, cfg.SessionMaxAge), isProduction)

	providers := oauth.FromConfig(cfg)
	if len(providers.List()) == 0 {
		log.Println("No OAuth providers configured; sign-in is disabled")
	}

	r := gin.Default()
	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService, providers, gateway, cfg.FrontendURL, cfg.PublicURL),
		Task:     handlers.NewTaskHandler(taskService),
		Category: handlers.NewCategoryHandler(categoryService),
	},
		middleware.RequireAuth(gateway),
		handlers.FlowSessions(cookie.NewStore(flowAuthKey, flowCipherKey), isProduction),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
