package ir

import (
	"errors"
	"fmt"
)

// Configuration error codes (E200-E299). These abort compilation before
// any hardware interaction.
const (
	ErrCodeUnknownSequence = "E201" // sequence name not registered
	ErrCodeArity           = "E202" // wrong number of positional arguments
	ErrCodeTooShort        = "E203" // delay shorter than the minimum spacing
	ErrCodeCount           = "E204" // non-positive repeat / pulse count
	ErrCodeEmpty           = "E205" // sequence has no duration
	ErrCodeMisaligned      = "E206" // timing not a multiple of the quantum
	ErrCodeHardware        = "E207" // unusable hardware description
	ErrCodeRange           = "E208" // value outside its permitted range
)

// Invariant error codes (E300-E399). These indicate a generator bug.
const (
	ErrCodeNegativeTime = "E301" // pulse edge before time zero
	ErrCodeZeroMask     = "E302" // channel without output bits
	ErrCodeOverlap      = "E303" // overlapping pulses on one channel
	ErrCodeOrder        = "E304" // table times not strictly increasing
	ErrCodeDuration     = "E305" // non-positive instruction duration
)

// ConfigError reports invalid or physically inconsistent timing parameters.
type ConfigError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(code, field, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvariantError reports a broken internal invariant, such as a negative
// computed edge. It is never produced by bad user input that validation
// should have caught, so callers must not treat it as a configuration
// problem.
type InvariantError struct {
	Code    string
	Channel string
	Message string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.Channel != "" {
		return fmt.Sprintf("invariant violated [%s] (channel=%s): %s", e.Code, e.Channel, e.Message)
	}
	return fmt.Sprintf("invariant violated [%s]: %s", e.Code, e.Message)
}

// NewInvariantError creates an InvariantError with a formatted message.
func NewInvariantError(code, channel, format string, args ...any) *InvariantError {
	return &InvariantError{Code: code, Channel: channel, Message: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsInvariantError reports whether err wraps an InvariantError.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// ErrorCode extracts the code of a ConfigError or InvariantError.
// Returns "" for any other error.
func ErrorCode(err error) string {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}
