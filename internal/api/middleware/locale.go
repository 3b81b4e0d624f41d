package middleware

import (
	"net/http"

	"github.com/workbenchhq/workbench-api/internal/api/shared"
	"github.com/workbenchhq/workbench-api/internal/i18n"
)

// localeCookie carries the user's stored locale preference. The
// dashboard writes it when the user switches languages.
const localeCookie = "locale"

// LocaleMiddleware resolves the request locale and stores it in the
// request context. Precedence: locale cookie, then Accept-Language,
// then the configured default.
func LocaleMiddleware(defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			stored := ""
			if c, err := r.Cookie(localeCookie); err == nil {
				stored = c.Value
			}

			locale := i18n.ResolveLocale(stored, r.Header.Get("Accept-Language"), defaultLocale)
			ctx := shared.SetLocale(r.Context(), locale)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
