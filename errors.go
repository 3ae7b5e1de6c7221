package gqlsc

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common operations.
var (
	// ErrCompileFailed is returned when a compilation reported at least
	// one error diagnostic.
	ErrCompileFailed = errors.New("gqlsc: compilation failed")

	// ErrInvalidConfig is returned when a project configuration cannot be
	// loaded or is invalid.
	ErrInvalidConfig = errors.New("gqlsc: invalid configuration")
)

// CompileError summarizes a compilation that reported errors. The
// diagnostics themselves are returned next to it.
type CompileError struct {
	errors   int
	warnings int
	// suppressed are the types whose output was not generated.
	suppressed []string
}

// Error returns the error string.
func (e *CompileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "gqlsc: compilation failed with %s", plural(e.errors, "error"))
	if e.warnings > 0 {
		fmt.Fprintf(&b, " and %s", plural(e.warnings, "warning"))
	}
	if len(e.suppressed) > 0 {
		fmt.Fprintf(&b, " (not generated: %s)", strings.Join(e.suppressed, ", "))
	}
	return b.String()
}

// Is reports whether the target error matches CompileError.
// This allows errors.Is(compileErr, ErrCompileFailed) to return true.
func (e *CompileError) Is(err error) bool {
	return err == ErrCompileFailed
}

// Errors returns the number of error diagnostics.
func (e *CompileError) Errors() int {
	return e.errors
}

// Warnings returns the number of warning diagnostics.
func (e *CompileError) Warnings() int {
	return e.warnings
}

// Suppressed returns the types whose output was not generated.
func (e *CompileError) Suppressed() []string {
	return e.suppressed
}

// NewCompileError returns a new CompileError.
func NewCompileError(errs, warnings int, suppressed ...string) *CompileError {
	return &CompileError{errors: errs, warnings: warnings, suppressed: suppressed}
}

// IsCompileError returns true if the error is a CompileError.
func IsCompileError(err error) bool {
	if err == nil {
		return false
	}
	var e *CompileError
	return errors.As(err, &e) || errors.Is(err, ErrCompileFailed)
}

// ConfigError represents an invalid project configuration.
type ConfigError struct {
	Path    string // configuration file, if any
	Key     string
	Message string
	Err     error
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("gqlsc: config")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, ": %s", e.Key)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches ConfigError.
func (e *ConfigError) Is(err error) bool {
	return err == ErrInvalidConfig
}

// NewConfigError returns a new ConfigError for the given key.
func NewConfigError(path, key, msg string, wrap error) *ConfigError {
	return &ConfigError{Path: path, Key: key, Message: msg, Err: wrap}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidConfig)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
