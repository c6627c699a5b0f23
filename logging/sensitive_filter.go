package logging

import (
	"regexp"
	"strings"
)

const redactedPlaceholder = "[REDACTED]"

// sensitivePatterns match credential material that can leak into free-form
// strings such as error messages or echoed configuration.
var sensitivePatterns = []*regexp.Regexp{
	// OpenAI-style keys.
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{16,}`),
	// Bearer tokens in headers or URLs.
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/=-]{8,}`),
	// key=value pairs for common secret names.
	regexp.MustCompile(`(?i)(api[_-]?key|token|secret|password|passwd)\s*[:=]\s*\S+`),
}

// sensitiveFieldNames are log field keys whose values are always redacted.
var sensitiveFieldNames = []string{
	"api_key",
	"apikey",
	"token",
	"secret",
	"password",
	"passwd",
	"authorization",
	"credential",
}

// sensitiveEnvVarPrefixes identify environment variable names whose values
// must never appear in logs.
var sensitiveEnvVarPrefixes = []string{
	"OPENAI_API_KEY",
	"LLM_API_KEY",
	"API_KEY",
	"SECRET",
	"TOKEN",
	"PASSWORD",
}

// IsSensitiveField reports whether a log field key names credential
// material.
func IsSensitiveField(key string) bool {
	lower := strings.ToLower(key)
	for _, name := range sensitiveFieldNames {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

// IsSensitiveEnvVar reports whether an environment variable name holds
// credential material.
func IsSensitiveEnvVar(name string) bool {
	upper := strings.ToUpper(name)
	for _, prefix := range sensitiveEnvVarPrefixes {
		if strings.HasPrefix(upper, prefix) || strings.Contains(upper, prefix) {
			return true
		}
	}
	return false
}

// ContainsSensitiveData reports whether s matches any credential pattern.
func ContainsSensitiveData(s string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// RedactSensitiveData replaces credential matches in s with a placeholder.
func RedactSensitiveData(s string) string {
	for _, p := range sensitivePatterns {
		s = p.ReplaceAllString(s, redactedPlaceholder)
	}
	return s
}
