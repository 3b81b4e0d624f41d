package shared

import (
	"context"

	"github.com/google/uuid"
	"github.com/workbenchhq/workbench-api/internal/i18n"
)

// ContextKey is the type for context values set by the API layer.
type ContextKey string

// Context keys for request-scoped values.
const (
	// UserIDContextKey is the context key for the authenticated user's id.
	UserIDContextKey ContextKey = "userID"

	// ProviderTokenContextKey is the context key for the user's GitHub
	// access token, extracted by the auth middleware.
	ProviderTokenContextKey ContextKey = "providerToken"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"

	// LocaleContextKey is the context key for the resolved request locale.
	LocaleContextKey ContextKey = "locale"
)

// SetTraceID adds a fresh trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.NewString())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// GetUserID retrieves the authenticated user id from the context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	return userID, ok && userID != ""
}

// GetProviderToken retrieves the GitHub access token from the context.
func GetProviderToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ProviderTokenContextKey).(string)
	return token, ok && token != ""
}

// SetLocale stores the resolved request locale in the context.
func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, LocaleContextKey, locale)
}

// GetLocale retrieves the resolved request locale. Falls back to the
// default locale when no middleware has run.
func GetLocale(ctx context.Context) string {
	locale, ok := ctx.Value(LocaleContextKey).(string)
	if !ok || locale == "" {
		return i18n.FallbackLocale
	}
	return locale
}
