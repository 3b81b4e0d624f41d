package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/workbenchhq/workbench-api/internal/api/middleware"
	"github.com/workbenchhq/workbench-api/internal/api/shared"
)

func TestLocaleMiddleware(t *testing.T) {
	t.Parallel()

	var gotLocale string
	handler := middleware.LocaleMiddleware("ko")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocale = shared.GetLocale(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name           string
		cookie         string
		acceptLanguage string
		want           string
	}{
		{name: "cookie wins", cookie: "en", acceptLanguage: "ko-KR,ko;q=0.9", want: "en"},
		{name: "accept language fallback", acceptLanguage: "en-US,en;q=0.9", want: "en"},
		{name: "unsupported cookie falls through", cookie: "fr", acceptLanguage: "en-US", want: "en"},
		{name: "default when nothing matches", acceptLanguage: "fr-FR,de;q=0.8", want: "ko"},
		{name: "no hints at all", want: "ko"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "locale", Value: tt.cookie})
			}
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}

			handler.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, gotLocale)
		})
	}
}

func TestGetLocale_Default(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "ko", shared.GetLocale(req.Context()))
}
