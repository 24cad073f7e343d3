package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"postboard/internal/auth"
	"postboard/internal/config"
	"postboard/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "handler-test-secret"

var testHasher = auth.NewHasher(auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

type noopSchema struct{}

func (noopSchema) EnsureUsersTable(context.Context) error { return nil }
func (noopSchema) EnsurePostsTable(context.Context) error { return nil }
func (noopSchema) EnsureLikesTable(context.Context) error { return nil }
func (noopSchema) Forget(error) bool                      { return false }

func inlineTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type testServer struct {
	app   *fiber.App
	users *MockUserRepository
	posts *MockPostRepository
	likes *MockLikeRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		users: new(MockUserRepository),
		posts: new(MockPostRepository),
		likes: new(MockLikeRepository),
	}
	s := &Server{
		config:      &config.Config{SecretKey: testSecret, TokenTTL: time.Hour, AllowedOrigins: "*"},
		userService: service.NewUserService(inlineTx, noopSchema{}, ts.users, testHasher, auth.NewIssuer(testSecret, time.Hour)),
		postService: service.NewPostService(inlineTx, noopSchema{}, ts.posts, nil),
		likeService: service.NewLikeService(inlineTx, noopSchema{}, ts.posts, ts.likes, nil),
	}
	ts.app = s.NewApp()
	t.Cleanup(func() {
		ts.users.AssertExpectations(t)
		ts.posts.AssertExpectations(t)
		ts.likes.AssertExpectations(t)
	})
	return ts
}

// do sends a request with an optional JSON body and returns the response and its body.
func (ts *testServer) do(t *testing.T, method, path, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func messageOf(t *testing.T, body string) string {
	t.Helper()
	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out), body)
	return out.Message
}

func TestHello(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello World!", body)
}

func TestLivenessCheck(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"up"`)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	ts := newTestServer(t)
	resp, body := ts.do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, messageOf(t, body))
}

func TestReadinessCheck(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	s := &Server{config: &config.Config{}, db: db}
	app := fiber.New()
	app.Get("/health/ready", s.ReadinessCheck)

	mock.ExpectPing()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mock.ExpectPing().WillReturnError(assert.AnError)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestSecurityHeaders(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := ts.do(t, http.MethodGet, "/", "")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}
