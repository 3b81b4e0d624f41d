package github

import "time"

// Repository is the normalized repository snapshot exposed to the rest
// of the application. It is immutable per fetch; nothing here is
// persisted locally.
type Repository struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"fullName"`
	Description     string    `json:"description"`
	IsPrivate       bool      `json:"isPrivate"`
	IsFork          bool      `json:"isFork"`
	Language        string    `json:"language"`
	StarCount       int       `json:"starCount"`
	ForkCount       int       `json:"forkCount"`
	Size            int       `json:"size"`
	LastPushedAt    time.Time `json:"lastPushedAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	URL             string    `json:"url"`
	CloneURL        string    `json:"cloneUrl"`
	Topics          []string  `json:"topics"`
	HasIssues       bool      `json:"hasIssues"`
	IsArchived      bool      `json:"isArchived"`
	DefaultBranch   string    `json:"defaultBranch"`
	OpenIssuesCount int       `json:"openIssuesCount"`
}

// User is the authenticated GitHub user.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// RateLimit is a snapshot of the core API rate limit.
type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"resetAt"`
}

// RepositoriesQuery holds the listing parameters for GetRepositories.
// Zero values select the documented defaults.
type RepositoriesQuery struct {
	Page      int    // 1..1000, default 1
	PerPage   int    // 1..100, default 30, capped at 100
	Sort      string // created, updated, pushed, full_name; default updated
	Direction string // asc, desc; default desc
	Type      string // all, owner, public, private, member; default all
}

// RepositoriesPage is one page of the user's repositories plus
// pagination and rate-limit metadata derived from response headers.
//
// TotalCount is an estimate: the listing endpoint does not report a
// total, so it is derived from the Link header when a rel="last" link
// exists and guessed from page fullness otherwise. Never compare it
// exactly against live API data.
type RepositoriesPage struct {
	Repositories []Repository `json:"repositories"`
	TotalCount   int          `json:"totalCount"`
	HasNextPage  bool         `json:"hasNextPage"`
	NextPage     int          `json:"nextPage,omitempty"`
	RateLimit    RateLimit    `json:"rateLimit"`
}

// SearchOptions holds parameters for SearchRepositories.
type SearchOptions struct {
	Sort    string // stars, forks, help-wanted-issues, updated
	Order   string // asc, desc; default desc
	PerPage int
	Page    int
}

// SearchResult is the search endpoint's response, with TotalCount and
// IncompleteResults passed through from the API verbatim.
type SearchResult struct {
	Repositories      []Repository `json:"repositories"`
	TotalCount        int          `json:"totalCount"`
	IncompleteResults bool         `json:"incompleteResults"`
}

// wireRepository mirrors the GitHub REST representation of a repository.
type wireRepository struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     *string   `json:"description"`
	Private         bool      `json:"private"`
	Fork            bool      `json:"fork"`
	Language        *string   `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	Size            int       `json:"size"`
	PushedAt        time.Time `json:"pushed_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	HTMLURL         string    `json:"html_url"`
	CloneURL        string    `json:"clone_url"`
	Topics          []string  `json:"topics"`
	HasIssues       bool      `json:"has_issues"`
	Archived        bool      `json:"archived"`
	DefaultBranch   string    `json:"default_branch"`
	OpenIssuesCount int       `json:"open_issues_count"`
}

// normalize converts the wire representation into the application
// shape, coercing nullable fields to zero values.
func (w *wireRepository) normalize() Repository {
	repo := Repository{
		ID:              w.ID,
		Name:            w.Name,
		FullName:        w.FullName,
		IsPrivate:       w.Private,
		IsFork:          w.Fork,
		StarCount:       w.StargazersCount,
		ForkCount:       w.ForksCount,
		Size:            w.Size,
		LastPushedAt:    w.PushedAt,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
		URL:             w.HTMLURL,
		CloneURL:        w.CloneURL,
		Topics:          w.Topics,
		HasIssues:       w.HasIssues,
		IsArchived:      w.Archived,
		DefaultBranch:   w.DefaultBranch,
		OpenIssuesCount: w.OpenIssuesCount,
	}
	if w.Description != nil {
		repo.Description = *w.Description
	}
	if w.Language != nil {
		repo.Language = *w.Language
	}
	if repo.Topics == nil {
		repo.Topics = []string{}
	}
	return repo
}
