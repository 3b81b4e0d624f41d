package shared_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workbenchhq/workbench-api/internal/api/shared"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	shared.RespondWithJSON(rr, req, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"abc"}`, rr.Body.String())
}

func TestRespondWithError_IncludesTraceID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.SetTraceID(req.Context()))
	rr := httptest.NewRecorder()

	shared.RespondWithError(rr, req, http.StatusBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "bad input", resp.Error)
	assert.Equal(t, shared.GetTraceID(req.Context()), resp.TraceID)
}

func TestRespondWithErrorAndLog_SanitizesBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	internal := errors.New("open /var/lib/workbench/tasks/x.md: permission denied")
	shared.RespondWithErrorAndLog(rr, req, http.StatusInternalServerError, "Failed to write task", internal)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	// The raw error never reaches the client.
	assert.NotContains(t, rr.Body.String(), "permission denied")
	assert.Contains(t, rr.Body.String(), "Failed to write task")
}

func TestRespondWithError_LocalizedMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		locale string
		status int
		want   string
	}{
		{name: "korean not found", locale: "ko", status: http.StatusNotFound, want: "요청한 리소스를 찾을 수 없습니다"},
		{name: "english unauthorized", locale: "en", status: http.StatusUnauthorized, want: "Unauthorized access"},
		{name: "english validation", locale: "en", status: http.StatusBadRequest, want: "Please check your input"},
		{name: "korean server error", locale: "ko", status: http.StatusInternalServerError, want: "서버 오류가 발생했습니다"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(shared.SetLocale(req.Context(), tt.locale))
			rr := httptest.NewRecorder()

			shared.RespondWithError(rr, req, tt.status, "whatever")

			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.LocalizedError)
		})
	}
}

func TestRespondWithError_LocalizedFallsBackToKorean(t *testing.T) {
	t.Parallel()

	// No locale middleware ran for this request.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	shared.RespondWithError(rr, req, http.StatusNotFound, "Task not found")

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "요청한 리소스를 찾을 수 없습니다", resp.LocalizedError)
}
