package logging

import (
	"strings"
	"testing"
)

func TestIsSensitiveField(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"api_key", true},
		{"openai_api_key", true},
		{"Authorization", true},
		{"password", true},
		{"db_token", true},
		{"filename", false},
		{"stage", false},
		{"confidence", false},
	}
	for _, tt := range tests {
		if got := IsSensitiveField(tt.key); got != tt.want {
			t.Errorf("IsSensitiveField(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestIsSensitiveEnvVar(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"OPENAI_API_KEY", true},
		{"LLM_API_KEY", true},
		{"DB_PASSWORD", true},
		{"MY_SECRET_VALUE", true},
		{"OUTPUT_DIR", false},
		{"MAX_CONCURRENT", false},
	}
	for _, tt := range tests {
		if got := IsSensitiveEnvVar(tt.name); got != tt.want {
			t.Errorf("IsSensitiveEnvVar(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRedactSensitiveData(t *testing.T) {
	in := "request failed: api_key=sk-abcdefghijklmnopqrst status 401"
	out := RedactSensitiveData(in)
	if strings.Contains(out, "sk-abcdefghijklmnopqrst") {
		t.Errorf("key survived redaction: %q", out)
	}
	if !strings.Contains(out, redactedPlaceholder) {
		t.Errorf("expected placeholder in %q", out)
	}
}

func TestRedactSensitiveData_BearerToken(t *testing.T) {
	out := RedactSensitiveData("Authorization: Bearer abc123def456ghi789")
	if strings.Contains(out, "abc123def456ghi789") {
		t.Errorf("token survived redaction: %q", out)
	}
}

func TestContainsSensitiveData_PlainText(t *testing.T) {
	if ContainsSensitiveData("processing manual.pdf with 12 pages") {
		t.Error("plain text flagged as sensitive")
	}
}
