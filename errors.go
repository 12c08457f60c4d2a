package mbgen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of a generation run.
var (
	// ErrConfig is returned when the request, profile or rules are invalid.
	// It is always detected before the engine is invoked.
	ErrConfig = errors.New("mbgen: invalid configuration")

	// ErrDriver is returned when the connector artifact of a dialect cannot be located.
	ErrDriver = errors.New("mbgen: driver resolution failed")

	// ErrIntrospection is returned when the database cannot be reached or read.
	ErrIntrospection = errors.New("mbgen: introspection failed")

	// ErrGeneration is returned when the generation engine fails.
	ErrGeneration = errors.New("mbgen: generation failed")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("mbgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("mbgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// DriverError represents a failure to locate the connector artifact of a dialect.
type DriverError struct {
	Dialect string
	Path    string
	Cause   error
}

// Error implements the error interface.
func (e *DriverError) Error() string {
	var b strings.Builder
	b.WriteString("mbgen: driver error")
	if e.Dialect != "" {
		b.WriteString(" for dialect ")
		b.WriteString(e.Dialect)
	}
	if e.Path != "" {
		b.WriteString(" (path: ")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DriverError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for DriverError.
func (e *DriverError) Is(target error) bool {
	return target == ErrDriver
}

// NewDriverError creates a new DriverError.
func NewDriverError(dialect, path string, cause error) *DriverError {
	return &DriverError{
		Dialect: dialect,
		Path:    path,
		Cause:   cause,
	}
}

// IntrospectionError represents a failure while contacting or reading the database.
type IntrospectionError struct {
	Dialect string
	Table   string
	Cause   error
}

// Error implements the error interface.
func (e *IntrospectionError) Error() string {
	var b strings.Builder
	b.WriteString("mbgen: introspection error")
	if e.Dialect != "" {
		b.WriteString(" on ")
		b.WriteString(e.Dialect)
	}
	if e.Table != "" {
		b.WriteString(" table ")
		b.WriteString(e.Table)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *IntrospectionError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for IntrospectionError.
func (e *IntrospectionError) Is(target error) bool {
	return target == ErrIntrospection
}

// NewIntrospectionError creates a new IntrospectionError.
func NewIntrospectionError(dialect, table string, cause error) *IntrospectionError {
	return &IntrospectionError{
		Dialect: dialect,
		Table:   table,
		Cause:   cause,
	}
}

// GenerationError represents a failure of one pipeline stage.
type GenerationError struct {
	Stage   string // "engine", "guard", etc.
	Dialect string
	Table   string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("mbgen: generation error")
	if e.Stage != "" {
		b.WriteString(" in stage ")
		b.WriteString(e.Stage)
	}
	if e.Dialect != "" || e.Table != "" {
		fmt.Fprintf(&b, " (dialect: %s, table: %s)", e.Dialect, e.Table)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(stage, dialect, table string, cause error) *GenerationError {
	return &GenerationError{
		Stage:   stage,
		Dialect: dialect,
		Table:   table,
		Cause:   cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsDriverError reports whether the error is a DriverError.
func IsDriverError(err error) bool {
	var driverErr *DriverError
	return errors.As(err, &driverErr)
}

// IsIntrospectionError reports whether the error is an IntrospectionError.
func IsIntrospectionError(err error) bool {
	var inspectErr *IntrospectionError
	return errors.As(err, &inspectErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
