// Package i18n resolves localized UI messages. Lookups are dotted-key
// descents over static locale tables and fail soft: a missing key
// comes back as the key itself so the caller always has something to
// render.
package i18n

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// FallbackLocale is used when no stored preference, browser language,
// or configured default applies.
const FallbackLocale = "ko"

// paramPattern matches {{param}} placeholders with word-character names.
var paramPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Translate resolves key against the message tree and substitutes
// params. The key is tried as a direct map entry first, then as a
// dotted path. A missing or non-string value returns the key itself
// and logs a warning; Translate never fails.
func Translate(messages Messages, key string, params map[string]any) string {
	if direct, ok := messages[key].(string); ok {
		return ReplaceParams(direct, params)
	}

	if nested, ok := nestedValue(messages, key); ok {
		return ReplaceParams(nested, params)
	}

	slog.Warn("translation missing", slog.String("key", key))
	return key
}

// nestedValue descends the tree one dotted segment at a time.
func nestedValue(messages Messages, key string) (string, bool) {
	var current any = messages
	for _, segment := range strings.Split(key, ".") {
		node, ok := current.(Messages)
		if !ok {
			return "", false
		}
		current, ok = node[segment]
		if !ok {
			return "", false
		}
	}
	s, ok := current.(string)
	return s, ok
}

// ReplaceParams substitutes {{param}} placeholders in template with the
// matching values, formatted with fmt.Sprint. Placeholders with no
// matching param stay literal.
func ReplaceParams(template string, params map[string]any) string {
	if len(params) == 0 {
		return template
	}
	return paramPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[2 : len(match)-2]
		if value, ok := params[name]; ok {
			return fmt.Sprint(value)
		}
		return match
	})
}

// ResolveLocale picks the locale to use. Precedence: the stored user
// preference, then the first supported language in the Accept-Language
// header, then the configured default, then FallbackLocale.
func ResolveLocale(stored, acceptLanguage, defaultLocale string) string {
	if IsSupported(stored) {
		return stored
	}

	for _, lang := range parseAcceptLanguage(acceptLanguage) {
		if IsSupported(lang) {
			return lang
		}
	}

	if IsSupported(defaultLocale) {
		return defaultLocale
	}
	return FallbackLocale
}

// parseAcceptLanguage extracts bare language codes from an
// Accept-Language header, in order. Quality weights are ignored; the
// header's own ordering is taken as the preference order.
func parseAcceptLanguage(header string) []string {
	var langs []string
	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(part)
		if i := strings.Index(lang, ";"); i >= 0 {
			lang = lang[:i]
		}
		if i := strings.Index(lang, "-"); i >= 0 {
			lang = lang[:i]
		}
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang != "" {
			langs = append(langs, lang)
		}
	}
	return langs
}
