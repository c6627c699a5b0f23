package core

import (
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeMissingAuth   = "MISSING_AUTH"
	ErrCodeInvalidValue  = "INVALID_CONFIG_VALUE"
	ErrCodeMissingConfig = "MISSING_CONFIG"
)

// ErrMissingAuth returns an error for missing authentication credentials.
func ErrMissingAuth(service string) *ConfigError {
	var action string
	switch service {
	case "openai":
		action = "Set OPENAI_API_BASE_URL to a local endpoint or OPENAI_API_KEY in your .env file"
	default:
		action = fmt.Sprintf("Set the required API key for %s in your .env file", service)
	}
	return &ConfigError{
		Code:    ErrCodeMissingAuth,
		Message: fmt.Sprintf("Missing authentication for %s", service),
		Action:  action,
	}
}

// ErrInvalidConfigValue returns an error for an out-of-range configuration value.
func ErrInvalidConfigValue(key, value, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidValue,
		Message: fmt.Sprintf("Invalid value %q for %s: %s", value, key, reason),
		Action:  fmt.Sprintf("Correct %s in your environment or config file", key),
	}
}

// ContractError signals a programming error: a caller violated a component's
// contract (e.g. requested an unknown extraction kind). Unlike data-quality
// failures, which degrade into stage errors, contract violations fail loudly
// at the call site.
type ContractError struct {
	Op     string // Operation that was called
	Detail string // What the caller got wrong
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Detail)
}

// NewContractError creates a ContractError for the given operation.
func NewContractError(op, detail string) *ContractError {
	return &ContractError{Op: op, Detail: detail}
}
