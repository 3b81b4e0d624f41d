package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workbenchhq/workbench-api/internal/api/shared"
	"github.com/workbenchhq/workbench-api/internal/config"
)

func repositoryRouter(cfg config.GitHubConfig) http.Handler {
	h := NewRepositoryHandler(cfg, slog.Default())
	r := chi.NewRouter()
	r.Get("/api/github/repositories", h.ListRepositories)
	r.Get("/api/github/repositories/search", h.SearchRepositories)
	r.Get("/api/github/repositories/{owner}/{repo}", h.GetRepository)
	r.Get("/api/github/user", h.GetCurrentUser)
	r.Get("/api/github/rate_limit", h.GetRateLimit)
	return r
}

// withProviderToken mimics what the auth middleware puts into the
// request context.
func withProviderToken(r *http.Request, token string) *http.Request {
	ctx := context.WithValue(r.Context(), shared.ProviderTokenContextKey, token)
	return r.WithContext(ctx)
}

func TestListRepositories_ProxiesUpstream(t *testing.T) {
	t.Parallel()

	var gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/user/repos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "name": "repo-one", "full_name": "octo/repo-one"},
		})
	}))
	defer upstream.Close()

	router := repositoryRouter(config.GitHubConfig{BaseURL: upstream.URL, UserAgent: "workbench-test"})

	rr := httptest.NewRecorder()
	req := withProviderToken(httptest.NewRequest(http.MethodGet, "/api/github/repositories?per_page=10", nil), "gho_testtoken1234567890abcdefghij")
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bearer gho_testtoken1234567890abcdefghij", gotAuth)
	assert.Contains(t, rr.Body.String(), `"fullName":"octo/repo-one"`)
}

func TestListRepositories_NoToken(t *testing.T) {
	t.Parallel()

	router := repositoryRouter(config.GitHubConfig{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/github/repositories", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "GitHub token not available")
}

func TestListRepositories_UpstreamStatusForwarded(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer upstream.Close()

	router := repositoryRouter(config.GitHubConfig{BaseURL: upstream.URL})

	rr := httptest.NewRecorder()
	req := withProviderToken(httptest.NewRequest(http.MethodGet, "/api/github/repositories", nil), "gho_expired")
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Bad credentials")
}

func TestSearchRepositories_RequiresQuery(t *testing.T) {
	t.Parallel()

	router := repositoryRouter(config.GitHubConfig{})

	rr := httptest.NewRecorder()
	req := withProviderToken(httptest.NewRequest(http.MethodGet, "/api/github/repositories/search", nil), "gho_token")
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetCurrentUser(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "login": "octocat"})
	}))
	defer upstream.Close()

	router := repositoryRouter(config.GitHubConfig{BaseURL: upstream.URL})

	rr := httptest.NewRecorder()
	req := withProviderToken(httptest.NewRequest(http.MethodGet, "/api/github/user", nil), "gho_token")
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"login":"octocat"`)
}
