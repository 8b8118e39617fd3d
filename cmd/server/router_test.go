package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/api"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTaskStore is an in-memory store.TaskStore.
type stubTaskStore struct {
	mu    sync.Mutex
	tasks []domain.Task
}

func (s *stubTaskStore) ListTasks(context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Task{}, s.tasks...), nil
}

func (s *stubTaskStore) CreateTask(_ context.Context, text string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := domain.Task{ID: int64(len(s.tasks) + 1), Text: text}
	s.tasks = append(s.tasks, t)
	return t, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        0,
			LogLevel:    "debug",
			CORSOrigins: []string{"*"},
		},
		Database: config.DatabaseConfig{
			Host:           "127.0.0.1",
			Port:           1,
			User:           "postgres",
			Password:       "postgres",
			Name:           "tasks",
			ConnectTimeout: time.Second,
			AcquireTimeout: 2 * time.Second,
			MaxConns:       2,
		},
	}
}

func newTestServer(t *testing.T, app *application) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return srv
}

func send(t *testing.T, method, url, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func TestRouter_Routes(t *testing.T) {
	l, _ := logger.NewTestLogger()
	app := &application{config: testConfig(), logger: l, taskStore: &stubTaskStore{}}
	srv := newTestServer(t, app)

	status, body := send(t, http.MethodGet, srv.URL+"/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, api.MsgHello, body["message"])

	status, body = send(t, http.MethodGet, srv.URL+"/tasks", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Empty(t, body["tasks"])

	status, body = send(t, http.MethodPost, srv.URL+"/tasks", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, api.MsgTaskRequired, body["message"])

	status, _ = send(t, http.MethodGet, srv.URL+"/tasks", "")
	assert.Equal(t, http.StatusOK, status)

	status, body = send(t, http.MethodPost, srv.URL+"/tasks", `{"task":"first"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, api.MsgTaskAdded, body["message"])

	status, body = send(t, http.MethodGet, srv.URL+"/tasks", "")
	assert.Equal(t, http.StatusOK, status)
	tasks, ok := body["tasks"].([]any)
	require.True(t, ok)
	require.Len(t, tasks, 1)
	assert.Equal(t, "first", tasks[0].(map[string]any)["task"])
}

func TestRouter_UnmatchedRoutes(t *testing.T) {
	l, _ := logger.NewTestLogger()
	app := &application{config: testConfig(), logger: l, taskStore: &stubTaskStore{}}
	srv := newTestServer(t, app)

	status, _ := send(t, http.MethodGet, srv.URL+"/nope", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = send(t, http.MethodDelete, srv.URL+"/tasks", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestRouter_TraceHeader(t *testing.T) {
	l, _ := logger.NewTestLogger()
	app := &application{config: testConfig(), logger: l, taskStore: &stubTaskStore{}}
	srv := newTestServer(t, app)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestRouter_CORS(t *testing.T) {
	l, _ := logger.NewTestLogger()
	cfg := testConfig()
	cfg.Server.CORSOrigins = []string{"https://app.example.com"}
	app := &application{config: cfg, logger: l, taskStore: &stubTaskStore{}}
	srv := newTestServer(t, app)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

// panickingTaskStore fails every call with a panic.
type panickingTaskStore struct{}

func (panickingTaskStore) ListTasks(context.Context) ([]domain.Task, error) {
	panic("store exploded")
}

func (panickingTaskStore) CreateTask(context.Context, string) (domain.Task, error) {
	panic("store exploded")
}

func TestRouter_PanicReturnsJSON(t *testing.T) {
	l, _ := logger.NewTestLogger()
	app := &application{config: testConfig(), logger: l, taskStore: panickingTaskStore{}}
	srv := newTestServer(t, app)

	status, body := send(t, http.MethodGet, srv.URL+"/tasks", "")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["message"])

	status, _ = send(t, http.MethodGet, srv.URL+"/", "")
	assert.Equal(t, http.StatusOK, status, "server keeps serving after a panic")
}
