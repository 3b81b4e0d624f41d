// Package redact strips sensitive information from strings before they
// are logged. Error messages in this service can carry GitHub access
// tokens, session JWTs, and on-disk storage paths; none of those belong
// in log output.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactedTokenPlaceholder = "[REDACTED_TOKEN]"
	RedactedPathPlaceholder  = "[REDACTED_PATH]"
)

var (
	// GitHub token formats: classic (ghp_), OAuth (gho_), app tokens
	// (ghu_/ghs_/ghr_), and fine-grained PATs.
	githubTokenRegex = regexp.MustCompile(`\b(?:ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{20,}\b|\bgithub_pat_[A-Za-z0-9_]{20,}\b`)

	// Standard three-part base64url JWT, as used for session tokens.
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Bearer credentials embedded in echoed headers.
	bearerRegex = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/]{8,}`)

	// Generic key/secret assignments.
	secretRegex = regexp.MustCompile(`(?i)(token|secret|key|password)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	// Absolute filesystem paths, which reveal the storage layout.
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	placeholders = map[*regexp.Regexp]string{
		githubTokenRegex: RedactedTokenPlaceholder,
		jwtTokenRegex:    RedactedTokenPlaceholder,
		bearerRegex:      RedactedTokenPlaceholder,
		secretRegex:      RedactedTokenPlaceholder,
		unixPathRegex:    RedactedPathPlaceholder,
	}

	// order keeps redaction deterministic; maps iterate randomly.
	order = []*regexp.Regexp{githubTokenRegex, jwtTokenRegex, bearerRegex, secretRegex, unixPathRegex}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, pattern := range order {
		result = pattern.ReplaceAllString(result, placeholders[pattern])
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
