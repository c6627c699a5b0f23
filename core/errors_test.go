package core

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want []string
	}{
		{
			name: "message with action",
			err:  &ConfigError{Code: ErrCodeMissingAuth, Message: "missing key", Action: "set it"},
			want: []string{"missing key", "set it"},
		},
		{
			name: "message without action",
			err:  &ConfigError{Code: ErrCodeMissingConfig, Message: "missing key"},
			want: []string{"missing key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.want {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want substring %q", msg, want)
				}
			}
		})
	}
}

func TestErrInvalidConfigValue(t *testing.T) {
	err := ErrInvalidConfigValue("MAX_CONCURRENT", "0", "must be at least 1")

	if err.Code != ErrCodeInvalidValue {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidValue)
	}
	for _, want := range []string{"MAX_CONCURRENT", "0", "must be at least 1"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error() = %q, want substring %q", err.Error(), want)
		}
	}
}

func TestContractError(t *testing.T) {
	err := NewContractError("Extract", "unknown kind \"widget\"")

	if !strings.Contains(err.Error(), "contract violation") {
		t.Errorf("Error() = %q, want contract violation prefix", err.Error())
	}
	if !strings.Contains(err.Error(), "unknown kind") {
		t.Errorf("Error() = %q, want detail included", err.Error())
	}

	var ce *ContractError
	if !errors.As(error(err), &ce) {
		t.Error("errors.As should match *ContractError")
	}
}
