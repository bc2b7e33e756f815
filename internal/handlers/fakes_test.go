package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/proyecthub/proyecthub-api/internal/config"
	"github.com/proyecthub/proyecthub-api/internal/middleware"
	"github.com/proyecthub/proyecthub-api/internal/models"
	"github.com/proyecthub/proyecthub-api/internal/repository"
	"github.com/proyecthub/proyecthub-api/internal/services"
	"github.com/proyecthub/proyecthub-api/internal/storage"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memProjectRepo struct {
	repository.ProjectRepository
	rows   map[uint]models.Project
	nextID uint
}

func (r *memProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *memProjectRepo) Exists(ctx context.Context, id uint) (bool, error) {
	_, ok := r.rows[id]
	return ok, nil
}

func (r *memProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	out := make([]models.Project, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProjectRepo) Create(ctx context.Context, p *models.Project) error {
	r.nextID++
	p.ID = r.nextID
	r.rows[p.ID] = *p
	return nil
}

func (r *memProjectRepo) Update(ctx context.Context, p *models.Project) error {
	if _, ok := r.rows[p.ID]; !ok {
		return repository.ErrConflict
	}
	r.rows[p.ID] = *p
	return nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type memAuditRepo struct {
	repository.AuditRepository
	rows []models.AuditLog
}

func (r *memAuditRepo) Create(ctx context.Context, e *models.AuditLog) error {
	e.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *e)
	return nil
}

func (r *memAuditRepo) FindByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	if id == 0 || int(id) > len(r.rows) {
		return nil, repository.ErrNotFound
	}
	e := r.rows[id-1]
	return &e, nil
}

func (r *memAuditRepo) List(ctx context.Context) ([]models.AuditLog, error) {
	out := make([]models.AuditLog, len(r.rows))
	for i := range r.rows {
		out[len(r.rows)-1-i] = r.rows[i]
	}
	return out, nil
}

func (r *memAuditRepo) MarkRestored(ctx context.Context, id uint, at time.Time, by *uint) error {
	if id == 0 || int(id) > len(r.rows) || r.rows[id-1].RestoredAt != nil {
		return repository.ErrConflict
	}
	r.rows[id-1].RestoredAt = &at
	r.rows[id-1].RevokedBy = by
	return nil
}

type memUserRepo struct {
	repository.UserRepository
	users []models.User
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	return r.users, nil
}

type testServer struct {
	router   *gin.Engine
	projects *memProjectRepo
	audits   *memAuditRepo
	store    *storage.LocalStorage
	token    string
}

const (
	testUsername = "admin@example.com"
	testPassword = "s3cret"
)

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:          "handler-secret",
		JWTIssuer:          "proyecthub",
		JWTAudience:        "proyecthub-admin",
		JWTExpirationHours: 2,
		ImagesMount:        "/images/",
		MaxUploadMB:        1,
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ts := &testServer{
		projects: &memProjectRepo{rows: map[uint]models.Project{}},
		audits:   &memAuditRepo{},
		store:    store,
	}
	repos := &repository.Repositories{
		User:    &memUserRepo{users: []models.User{{ID: 1, Username: testUsername, PasswordHash: string(hash)}}},
		Project: ts.projects,
		Audit:   ts.audits,
	}

	h := NewHandlers(services.NewServices(repos, store, cfg))
	ts.router = gin.New()
	validator := middleware.NewTokenValidator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	h.RegisterRoutes(ts.router.Group("/api"), validator)

	w := ts.do(t, http.MethodPost, "/api/auth/login", `{"username":"`+testUsername+`","password":"`+testPassword+`"}`, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login services.LoginResult
	decodeJSON(t, w, &login)
	ts.token = login.Token
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}
