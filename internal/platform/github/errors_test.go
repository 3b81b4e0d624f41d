package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_IsRateLimited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  APIError
		want bool
	}{
		{
			name: "429 always counts",
			err:  APIError{StatusCode: 429, Message: "too many requests"},
			want: true,
		},
		{
			name: "403 with depleted quota",
			err:  APIError{StatusCode: 403, Message: "Forbidden", RateLimitRemaining: "0"},
			want: true,
		},
		{
			name: "403 with rate limit message",
			err:  APIError{StatusCode: 403, Message: "API rate limit exceeded for user ID 1"},
			want: true,
		},
		{
			name: "plain permissions 403",
			err:  APIError{StatusCode: 403, Message: "Resource not accessible by integration", RateLimitRemaining: "4999"},
			want: false,
		},
		{
			name: "permissions 403 without quota header",
			err:  APIError{StatusCode: 403, Message: "Must have admin rights to Repository."},
			want: false,
		},
		{
			name: "unauthorized",
			err:  APIError{StatusCode: 401, Message: "Bad credentials"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.IsRateLimited())
		})
	}
}
