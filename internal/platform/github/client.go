// Package github is a thin authenticated client for the GitHub REST
// API. It normalizes repository JSON, derives pagination from Link
// response headers, and surfaces rate-limit metadata to callers.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "workbench-api/1.0"
	defaultPerPage   = 30
	maxPerPage       = 100
	maxPage          = 1000
	apiVersion       = "2022-11-28"

	// requestTimeout bounds every individual API call; the outer
	// context can shorten it further.
	requestTimeout = 10 * time.Second

	// pageDelay spaces sequential page fetches in GetAllRepositories
	// to reduce rate-limit pressure. Non-adaptive on purpose.
	pageDelay = 100 * time.Millisecond

	// defaultMaxPages bounds GetAllRepositories when the caller passes
	// a non-positive limit.
	defaultMaxPages = 10
)

// Client is an authenticated GitHub REST client. It is safe for
// concurrent use.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	httpc     *http.Client
	logger    *slog.Logger
	pageDelay time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (tests, GitHub Enterprise).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithPageDelay overrides the inter-page delay used by
// GetAllRepositories. Tests set this to zero.
func WithPageDelay(d time.Duration) Option {
	return func(c *Client) { c.pageDelay = d }
}

// NewClient creates a Client authenticated with the given bearer token.
func NewClient(token string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for github.Client")
	}
	c := &Client{
		baseURL:   defaultBaseURL,
		token:     token,
		userAgent: defaultUserAgent,
		httpc:     &http.Client{Timeout: requestTimeout},
		logger:    logger.With(slog.String("component", "github_client")),
		pageDelay: pageDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one GET and decodes a 2xx JSON body into out (skipped when
// out is nil). Non-2xx responses become *APIError. The caller receives
// the response for header inspection; its body is already consumed.
func (c *Client) do(ctx context.Context, endpoint string, out any) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read github response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode:         resp.StatusCode,
			Body:               body,
			RateLimitRemaining: resp.Header.Get("X-RateLimit-Remaining"),
		}
		var parsed struct {
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal(body, &parsed); jsonErr == nil && parsed.Message != "" {
			apiErr.Message = parsed.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.Debug("github API error",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("message", apiErr.Message))
		return resp, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return resp, fmt.Errorf("decode github response: %w", err)
		}
	}
	return resp, nil
}

// GetRepositories fetches one page of the authenticated user's
// repositories. Pagination (HasNextPage, NextPage) is derived from the
// Link response header; TotalCount is the documented estimate.
func (c *Client) GetRepositories(ctx context.Context, query RepositoriesQuery) (*RepositoriesPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	perPage := query.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	sortBy := query.Sort
	if sortBy == "" {
		sortBy = "updated"
	}
	direction := query.Direction
	if direction == "" {
		direction = "desc"
	}
	repoType := query.Type
	if repoType == "" {
		repoType = "all"
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("sort", sortBy)
	params.Set("direction", direction)
	params.Set("type", repoType)

	var wire []wireRepository
	resp, err := c.do(ctx, "/user/repos?"+params.Encode(), &wire)
	if err != nil {
		return nil, err
	}

	repos := make([]Repository, len(wire))
	for i := range wire {
		repos[i] = wire[i].normalize()
	}

	links := parseLinkHeader(resp.Header.Get("Link"))
	hasNext := links["next"] != ""

	result := &RepositoriesPage{
		Repositories: repos,
		TotalCount:   estimateTotalCount(links, page, perPage, len(repos)),
		HasNextPage:  hasNext,
		RateLimit:    rateLimitFromHeaders(resp.Header),
	}
	if hasNext {
		result.NextPage = page + 1
	}
	return result, nil
}

// GetAllRepositories aggregates pages sequentially at the maximum page
// size until no next page remains or maxPages is reached (<=0 selects
// the default of 10). Pages cannot be fetched in parallel: each fetch
// depends on the previous page's Link header to know whether to
// continue. A fixed delay between pages eases rate-limit pressure.
func (c *Client) GetAllRepositories(ctx context.Context, query RepositoriesQuery, maxPages int) ([]Repository, error) {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	var all []Repository
	for page := 1; page <= maxPages; page++ {
		query.Page = page
		query.PerPage = maxPerPage

		result, err := c.GetRepositories(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		all = append(all, result.Repositories...)

		if !result.HasNextPage {
			break
		}
		if page < maxPages && c.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pageDelay):
			}
		}
	}
	return all, nil
}

// SearchRepositories runs a repository search. TotalCount and
// IncompleteResults are returned exactly as reported by the API.
func (c *Client) SearchRepositories(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	sortBy := opts.Sort
	if sortBy == "" {
		sortBy = "updated"
	}
	order := opts.Order
	if order == "" {
		order = "desc"
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", sortBy)
	params.Set("order", order)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))

	var wire struct {
		TotalCount        int              `json:"total_count"`
		IncompleteResults bool             `json:"incomplete_results"`
		Items             []wireRepository `json:"items"`
	}
	if _, err := c.do(ctx, "/search/repositories?"+params.Encode(), &wire); err != nil {
		return nil, err
	}

	repos := make([]Repository, len(wire.Items))
	for i := range wire.Items {
		repos[i] = wire.Items[i].normalize()
	}
	return &SearchResult{
		Repositories:      repos,
		TotalCount:        wire.TotalCount,
		IncompleteResults: wire.IncompleteResults,
	}, nil
}

// GetRepository fetches a single repository by owner and name.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	var wire wireRepository
	if _, err := c.do(ctx, "/repos/"+url.PathEscape(owner)+"/"+url.PathEscape(repo), &wire); err != nil {
		return nil, err
	}
	normalized := wire.normalize()
	return &normalized, nil
}

// GetCurrentUser fetches the authenticated user.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if _, err := c.do(ctx, "/user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetRateLimit fetches the current core rate limit.
func (c *Client) GetRateLimit(ctx context.Context) (*RateLimit, error) {
	var wire struct {
		Resources struct {
			Core struct {
				Limit     int   `json:"limit"`
				Remaining int   `json:"remaining"`
				Reset     int64 `json:"reset"`
			} `json:"core"`
		} `json:"resources"`
	}
	if _, err := c.do(ctx, "/rate_limit", &wire); err != nil {
		return nil, err
	}
	return &RateLimit{
		Limit:     wire.Resources.Core.Limit,
		Remaining: wire.Resources.Core.Remaining,
		ResetAt:   time.Unix(wire.Resources.Core.Reset, 0).UTC(),
	}, nil
}

// linkRelPattern extracts rel values from Link header parts.
var linkRelPattern = regexp.MustCompile(`rel="([^"]+)"`)

// parseLinkHeader parses an RFC 8288 Link header into a rel -> URL map.
// Only the rels GitHub emits (next, prev, first, last) are relevant.
func parseLinkHeader(header string) map[string]string {
	links := make(map[string]string)
	if header == "" {
		return links
	}
	for _, part := range strings.Split(header, ",") {
		sections := strings.Split(part, ";")
		if len(sections) < 2 {
			continue
		}
		rawURL := strings.Trim(strings.TrimSpace(sections[0]), "<>")
		m := linkRelPattern.FindStringSubmatch(sections[1])
		if m == nil {
			continue
		}
		links[m[1]] = rawURL
	}
	return links
}

// extractPage pulls the page query parameter out of a pagination URL,
// defaulting to 1 when absent or malformed.
func extractPage(rawURL string) int {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 1
	}
	page, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// estimateTotalCount derives an approximate total repository count.
// With a rel="last" link the count is exact modulo a race with
// concurrent pushes; otherwise a full page implies at least one more
// item exists, and a partial page means this page is the last.
func estimateTotalCount(links map[string]string, page, perPage, itemCount int) int {
	if last := links["last"]; last != "" {
		return (extractPage(last)-1)*perPage + itemCount
	}
	if itemCount == perPage {
		return page*perPage + 1
	}
	return (page-1)*perPage + itemCount
}

// rateLimitFromHeaders extracts the rate-limit snapshot carried on
// every GitHub response.
func rateLimitFromHeaders(h http.Header) RateLimit {
	remaining, _ := strconv.Atoi(h.Get("X-RateLimit-Remaining"))
	limit, _ := strconv.Atoi(h.Get("X-RateLimit-Limit"))
	var resetAt time.Time
	if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil && reset > 0 {
		resetAt = time.Unix(reset, 0).UTC()
	}
	return RateLimit{Limit: limit, Remaining: remaining, ResetAt: resetAt}
}
