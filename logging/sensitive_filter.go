package logging

import (
	"regexp"
	"strings"
)

// RedactedPlaceholder is the string used to replace sensitive data
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns contains compiled regex patterns for detecting sensitive
// data. These patterns are compiled once at package initialization.
//
// The launcher handles two kinds of secrets: the access token it injects
// into server URLs, and the password hashes the passwd command writes into
// the server config. Both must never reach a log file, because launch logs
// are routinely attached to support requests.
var sensitivePatterns = []*regexp.Regexp{
	// Server access tokens in URLs or assignments: ?token=..., token=...
	regexp.MustCompile(`(?i)(token\s*[:=]\s*[a-zA-Z0-9._-]{8,})`),

	// Argon2 password hashes as stored in the server config. The parameter
	// block contains commas, so the whole hash shape is spelled out rather
	// than stopping at the usual separators and leaving the key visible.
	regexp.MustCompile(`(argon2:\$argon2[a-z0-9]*\$v=\d+\$m=\d+,t=\d+,p=\d+\$[^\s"',;$]+\$[^\s"',;$]+)`),

	// Bearer headers, e.g. when probing a running server over HTTP
	regexp.MustCompile(`(?i)(bearer\s+[a-zA-Z0-9._-]{20,})`),

	// Generic secret assignments
	regexp.MustCompile(`(?i)(password\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(secret\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(api_key\s*[:=]\s*[^\s,;]{8,})`),
}

// sensitiveFieldMarkers are substrings of field names that indicate
// sensitive data regardless of the value.
var sensitiveFieldMarkers = []string{
	"PASSWORD",
	"PASSWD",
	"SECRET",
	"TOKEN",
	"API_KEY",
	"APIKEY",
}

// RedactSensitiveData scans a string value and redacts any detected
// sensitive data. This is a pure function - it takes a string and returns a
// sanitized string.
//
// Patterns detected:
//   - Server access tokens (token=... in URLs and assignments)
//   - Argon2 password hashes (argon2:$argon2id$...)
//   - Bearer tokens
//   - Generic password/secret/api_key assignments
//
// Example:
//
//	input := "opening http://127.0.0.1:8899/lab?token=a1b2c3d4e5f6a7b8"
//	output := RedactSensitiveData(input)
//	// output: "opening http://127.0.0.1:8899/lab?[REDACTED]"
func RedactSensitiveData(value string) string {
	if value == "" {
		return value
	}

	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// RedactField redacts a field value if the field name indicates sensitive
// data, and otherwise scans the value itself.
//
// This is a pure function with no side effects.
//
// Example:
//
//	value := RedactField("server_token", "a1b2c3d4e5f6")
//	// value: "[REDACTED]"
//
//	value := RedactField("notebook", "dashboard.ipynb")
//	// value: "dashboard.ipynb" (unchanged)
func RedactField(fieldName, fieldValue string) string {
	if IsSensitiveField(fieldName) {
		return RedactedPlaceholder
	}
	return RedactSensitiveData(fieldValue)
}

// IsSensitiveField returns true if the field name indicates sensitive data.
// This is a pure function that only checks the field name, not the value.
//
// Example:
//
//	IsSensitiveField("server_token")  // true
//	IsSensitiveField("notebook_dir")  // false
func IsSensitiveField(fieldName string) bool {
	upperName := strings.ToUpper(fieldName)

	for _, marker := range sensitiveFieldMarkers {
		if strings.Contains(upperName, marker) {
			return true
		}
	}
	return false
}

// ContainsSensitiveData returns true if the value contains any sensitive
// data patterns. This is a pure function that scans the value for known
// patterns.
//
// Example:
//
//	ContainsSensitiveData("token=a1b2c3d4e5f6")  // true
//	ContainsSensitiveData("hello world")         // false
func ContainsSensitiveData(value string) bool {
	if value == "" {
		return false
	}

	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}
