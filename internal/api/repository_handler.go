package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/workbenchhq/workbench-api/internal/api/shared"
	"github.com/workbenchhq/workbench-api/internal/config"
	"github.com/workbenchhq/workbench-api/internal/platform/github"
	"github.com/workbenchhq/workbench-api/internal/platform/logger"
)

// RepositoryHandler proxies GitHub repository data for the
// authenticated user. The GitHub client is constructed per request
// from the provider token the auth middleware put into the context;
// the server itself holds no GitHub credential.
type RepositoryHandler struct {
	cfg    config.GitHubConfig
	logger *slog.Logger
}

// NewRepositoryHandler creates a new RepositoryHandler.
func NewRepositoryHandler(cfg config.GitHubConfig, logger *slog.Logger) *RepositoryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for RepositoryHandler")
	}
	return &RepositoryHandler{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "repository_handler")),
	}
}

// client builds a GitHub client for the request, or writes a 401 and
// returns nil when no provider token is present.
func (h *RepositoryHandler) client(w http.ResponseWriter, r *http.Request) *github.Client {
	token, ok := shared.GetProviderToken(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "GitHub token not available for this session")
		return nil
	}

	opts := []github.Option{github.WithUserAgent(h.cfg.UserAgent)}
	if h.cfg.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(h.cfg.BaseURL))
	}
	return github.NewClient(token, h.logger, opts...)
}

// ListRepositories handles GET /api/github/repositories requests.
// With all=true the pages are aggregated server-side up to max_pages.
func (h *RepositoryHandler) ListRepositories(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	client := h.client(w, r)
	if client == nil {
		return
	}

	q := r.URL.Query()
	query := github.RepositoriesQuery{
		Page:      intParam(q.Get("page")),
		PerPage:   intParam(q.Get("per_page")),
		Sort:      q.Get("sort"),
		Direction: q.Get("direction"),
		Type:      q.Get("type"),
	}

	if q.Get("all") == "true" {
		repos, err := client.GetAllRepositories(r.Context(), query, intParam(q.Get("max_pages")))
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		log.Debug("aggregated repositories", slog.Int("count", len(repos)))
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{
			"repositories": repos,
			"totalCount":   len(repos),
		})
		return
	}

	page, err := client.GetRepositories(r.Context(), query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, page)
}

// SearchRepositories handles GET /api/github/repositories/search requests.
func (h *RepositoryHandler) SearchRepositories(w http.ResponseWriter, r *http.Request) {
	client := h.client(w, r)
	if client == nil {
		return
	}

	q := r.URL.Query()
	queryString := q.Get("q")
	if queryString == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "q query parameter is required")
		return
	}

	result, err := client.SearchRepositories(r.Context(), queryString, github.SearchOptions{
		Sort:    q.Get("sort"),
		Order:   q.Get("order"),
		Page:    intParam(q.Get("page")),
		PerPage: intParam(q.Get("per_page")),
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetRepository handles GET /api/github/repositories/{owner}/{repo} requests.
func (h *RepositoryHandler) GetRepository(w http.ResponseWriter, r *http.Request) {
	client := h.client(w, r)
	if client == nil {
		return
	}

	repo, err := client.GetRepository(r.Context(), chi.URLParam(r, "owner"), chi.URLParam(r, "repo"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, repo)
}

// GetCurrentUser handles GET /api/github/user requests.
func (h *RepositoryHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	client := h.client(w, r)
	if client == nil {
		return
	}

	user, err := client.GetCurrentUser(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// GetRateLimit handles GET /api/github/rate_limit requests.
func (h *RepositoryHandler) GetRateLimit(w http.ResponseWriter, r *http.Request) {
	client := h.client(w, r)
	if client == nil {
		return
	}

	limit, err := client.GetRateLimit(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, limit)
}

// intParam parses a numeric query parameter, returning 0 (the
// "use default" sentinel) for anything unparseable.
func intParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
