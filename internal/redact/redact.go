// Package redact provides utilities for redacting sensitive information from
// strings before they are logged. This keeps credentials, connection strings,
// email addresses, tokens, and SQL fragments out of log output even when a
// wrapped error carries them.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
)

// Precompiled regex patterns for the data this application can leak:
// database URLs, passwords in messages, signed tokens, emails, and SQL.
var (
	dbConnRegex   = regexp.MustCompile(`(?i)(postgres|postgresql|db|database)://[^@\s]+@`)
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`)
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)
	emailRegex    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	sqlRegex      = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE)[\s\w,*()$]+(?:FROM|INTO|SET)(?:[\s\w,*()='"$]+)?`,
	)

	patterns = []*regexp.Regexp{
		dbConnRegex, passwordRegex, jwtTokenRegex, emailRegex, sqlRegex,
	}

	patternPlaceholders = map[*regexp.Regexp]string{
		dbConnRegex:   RedactedCredentialPlaceholder,
		passwordRegex: RedactedCredentialPlaceholder,
		jwtTokenRegex: RedactedTokenPlaceholder,
		emailRegex:    RedactedEmailPlaceholder,
		sqlRegex:      RedactedSQLPlaceholder,
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pattern := range patterns {
		result = pattern.ReplaceAllString(result, patternPlaceholders[pattern])
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
