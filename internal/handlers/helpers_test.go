package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/priority-matrix-api/internal/database"
	"github.com/yukikurage/priority-matrix-api/internal/middleware"
	"github.com/yukikurage/priority-matrix-api/internal/models"
	"github.com/yukikurage/priority-matrix-api/internal/oauth"
	"github.com/yukikurage/priority-matrix-api/internal/repository"
	"github.com/yukikurage/priority-matrix-api/internal/services"
	"github.com/yukikurage/priority-matrix-api/internal/session"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testFrontendURL = "http://localhost:3001"
	testPublicURL   = "http://localhost:8080"
)

type testEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	gateway *session.Gateway
}

type envOptions struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
	providers    []oauth.Provider
	strictLinks  bool
}

func setupTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	// Every connection to :memory: opens a fresh database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.AutoMigrate(db))

	if opts.taskRepo == nil {
		opts.taskRepo = repository.NewTaskRepository(db)
	}
	if opts.categoryRepo == nil {
		opts.categoryRepo = repository.NewCategoryRepository(db)
	}

	gateway := session.NewGateway(session.NewTokenManager([]byte("test-session-key-0123456789abcdef"), 30*24*time.Hour), false)
	authService := services.NewAuthService(repository.NewUserRepository(db), services.LinkingPolicy{
		LinkUnconditionally: !opts.strictLinks,
	})

	r := gin.New()
	RegisterRoutes(r, Handlers{
		Auth:     NewAuthHandler(authService, oauth.NewRegistry(opts.providers...), gateway, testFrontendURL+"/", testPublicURL),
		Task:     NewTaskHandler(services.NewTaskService(opts.taskRepo)),
		Category: NewCategoryHandler(services.NewCategoryService(opts.categoryRepo)),
	},
		middleware.RequireAuth(gateway),
		FlowSessions(cookie.NewStore([]byte("flow-auth-key-0123456789abcdef01"), []byte("flow-enc-key-0123456789abcdef012")), false),
	)

	return &testEnv{db: db, router: r, gateway: gateway}
}

// sessionCookie issues a session cookie for userID
func (e *testEnv) sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	_, err := e.gateway.Issue(w, userID, "Test User", userID+"@example.com")
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		payload, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// countingTaskRepo records calls and fails every one of them
type countingTaskRepo struct {
	calls int
	err   error
}

func (r *countingTaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	r.calls++
	return nil, r.err
}

func (r *countingTaskRepo) Create(ctx context.Context, task *models.Task) error {
	r.calls++
	return r.err
}

func (r *countingTaskRepo) FindOwned(ctx context.Context, ownerID, id string, withCategory bool) (*models.Task, error) {
	r.calls++
	return nil, r.err
}

func (r *countingTaskRepo) UpdateOwned(ctx context.Context, ownerID, id string, fields map[string]interface{}) (int64, error) {
	r.calls++
	return 0, r.err
}

func (r *countingTaskRepo) DeleteOwned(ctx context.Context, ownerID, id string) (int64, error) {
	r.calls++
	return 0, r.err
}

// countingCategoryRepo records calls and fails every one of them
type countingCategoryRepo struct {
	calls int
	err   error
}

func (r *countingCategoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Category, error) {
	r.calls++
	return nil, r.err
}

func (r *countingCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	r.calls++
	return r.err
}

func (r *countingCategoryRepo) FindOwned(ctx context.Context, ownerID, id string) (*models.Category, error) {
	r.calls++
	return nil, r.err
}

func (r *countingCategoryRepo) UpdateOwned(ctx context.Context, ownerID, id string, fields map[string]interface{}) (int64, error) {
	r.calls++
	return 0, r.err
}

func (r *countingCategoryRepo) DeleteOwned(ctx context.Context, ownerID, id string) (int64, error) {
	r.calls++
	return 0, r.err
}

// fakeProvider accepts the code "good-code" and returns a fixed identity
type fakeProvider struct {
	id       string
	identity *oauth.Identity
}

func (p *fakeProvider) ID() string   { return p.id }
func (p *fakeProvider) Name() string { return "Fake " + p.id }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (p *fakeProvider) Exchange(ctx context.Context, code string) (*oauth.Identity, error) {
	if code != "good-code" {
		return nil, oauth.ErrExchangeFailed
	}
	return p.identity, nil
}
