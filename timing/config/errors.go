package config

import (
	"errors"
	"fmt"
)

// ErrEmptyTrace is returned when a level has no addresses to process.
var ErrEmptyTrace = errors.New("no word addresses supplied")

// ConfigurationError reports an inconsistent level configuration. No
// reference is processed once one is returned.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
