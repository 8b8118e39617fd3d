package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		data         any
		expectedBody string
	}{
		{
			name:         "object",
			status:       http.StatusOK,
			data:         map[string]any{"message": "Hello, world!"},
			expectedBody: `{"message":"Hello, world!"}`,
		},
		{
			name:         "empty object",
			status:       http.StatusOK,
			data:         map[string]any{},
			expectedBody: `{}`,
		},
		{
			name:         "nil",
			status:       http.StatusOK,
			data:         nil,
			expectedBody: `null`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestRespondWithJSON_EncodingFailure(t *testing.T) {
	l, logs := logger.NewTestLogger()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), l))
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Task is required")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Task is required"}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		opts          []ResponseOption
		expectedBody  string
		expectedLevel string
	}{
		{
			name:          "server error with detail",
			status:        http.StatusInternalServerError,
			opts:          []ResponseOption{WithErrorDetail("connect failed: password=hunter2")},
			expectedBody:  `{"success":false,"message":"Failed to fetch tasks","error":"connect failed: password=[REDACTED_CREDENTIAL]"}`,
			expectedLevel: "ERROR",
		},
		{
			name:          "client error without detail",
			status:        http.StatusBadRequest,
			expectedBody:  `{"success":false,"message":"Failed to fetch tasks"}`,
			expectedLevel: "DEBUG",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, logs := logger.NewTestLogger()
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			req = req.WithContext(logger.WithLogger(req.Context(), l))
			w := httptest.NewRecorder()

			RespondWithErrorAndLog(w, req, tc.status, "Failed to fetch tasks",
				errors.New("dial postgres://app:hunter2@db/tasks"), tc.opts...)

			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.expectedBody, w.Body.String())

			entries, err := logs.Entries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.expectedLevel, entries[0]["level"])
			assert.Equal(t, "API error response", entries[0]["msg"])
			assert.NotContains(t, entries[0]["error"], "hunter2", "logged errors must be redacted")
		})
	}
}

func TestTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetTraceID(req.Context()))

	ctx := SetTraceID(req.Context())
	first := GetTraceID(ctx)
	assert.Len(t, first, 36)
	assert.NotEqual(t, first, GetTraceID(SetTraceID(req.Context())))
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Task string `json:"task" validate:"required"`
	}

	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"task":"x"}`))
	require.NoError(t, DecodeJSON(req, &body))
	assert.Equal(t, "x", body.Task)
	assert.NoError(t, ValidateRequest(body))

	body.Task = ""
	assert.Error(t, ValidateRequest(body))
}
