package errors

import "fmt"

// ─── types ────────────────────────────────────────────────────────────────────

type InputError struct {
	Field   string
	Message string
}

type ConfigError struct {
	Key     string
	Message string
}

// ─── error interfaces ─────────────────────────────────────────────────────────

func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("input error: %s", e.Message)
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config %s: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// ─── constructors ─────────────────────────────────────────────────────────────

func Input(field, msg string) error {
	return &InputError{Field: field, Message: msg}
}

func Config(key, msg string) error {
	return &ConfigError{Key: key, Message: msg}
}
