// Package errors provides typed, contextual errors for the analysis pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorType classifies an analysis error for logging and recovery decisions.
type ErrorType string

const (
	ErrorTypePhase    ErrorType = "phase"
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeResolve  ErrorType = "resolve"
	ErrorTypeFile     ErrorType = "file"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeInternal ErrorType = "internal"
)

// PhaseError represents a failure attributable to one file within a phase.
// Per spec §7, per-file parse/IO failures are logged and the file is
// recorded but contributes nothing further; the phase continues.
type PhaseError struct {
	Type        ErrorType
	Phase       string
	FilePath    string
	Operation   string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// NewPhaseError creates a new phase error with context.
func NewPhaseError(phase, op string, err error) *PhaseError {
	return &PhaseError{
		Type:        ErrorTypePhase,
		Phase:       phase,
		Operation:   op,
		Underlying:  err,
		Timestamp:   time.Now(),
		Recoverable: true,
	}
}

// WithFile attaches the offending file path.
func (e *PhaseError) WithFile(path string) *PhaseError {
	e.FilePath = path
	return e
}

// WithRecoverable marks whether the pipeline may continue past this error.
func (e *PhaseError) WithRecoverable(recoverable bool) *PhaseError {
	e.Recoverable = recoverable
	return e
}

func (e *PhaseError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s: %s failed for %s: %v", e.Phase, e.Operation, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Phase, e.Operation, e.Underlying)
}

func (e *PhaseError) Unwrap() error { return e.Underlying }

func (e *PhaseError) IsRecoverable() bool { return e.Recoverable }

// ParseError represents a recoverable per-file parse failure (§7
// per-file-parse-failure: logged, file recorded with no symbols).
type ParseError struct {
	FilePath   string
	Line       int
	Column     int
	Token      string
	Underlying error
	Timestamp  time.Time
}

func NewParseError(path string, line, column int, token string, err error) *ParseError {
	return &ParseError{
		FilePath:   path,
		Line:       line,
		Column:     column,
		Token:      token,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s:%d:%d (near %q): %v", e.FilePath, e.Line, e.Column, e.Token, e.Underlying)
}

func (e *ParseError) Unwrap() error { return e.Underlying }

// ProjectFileError represents a malformed .csproj/.vbproj/.sln file (§7
// malformed-project-file: logged, extracted data discarded, neighbours
// unaffected).
type ProjectFileError struct {
	FilePath   string
	Underlying error
	Timestamp  time.Time
}

func NewProjectFileError(path string, err error) *ProjectFileError {
	return &ProjectFileError{FilePath: path, Underlying: err, Timestamp: time.Now()}
}

func (e *ProjectFileError) Error() string {
	return fmt.Sprintf("malformed project file %s: %v", e.FilePath, e.Underlying)
}

func (e *ProjectFileError) Unwrap() error { return e.Underlying }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Underlying: err, Timestamp: time.Now()}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %q): %v", e.Field, e.Value, e.Underlying)
}

func (e *ConfigError) Unwrap() error { return e.Underlying }

// InvariantError is fatal: it represents a violation of a core data-model
// invariant (§7 internal-invariant-violation, e.g. a CallEdge endpoint
// missing from the symbol table). The pipeline must not emit a partial
// artifact when this occurs.
type InvariantError struct {
	Invariant  string
	Detail     string
	Underlying error
}

func NewInvariantError(invariant, detail string) *InvariantError {
	return &InvariantError{Invariant: invariant, Detail: detail}
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated (%s): %s", e.Invariant, e.Detail)
}

func (e *InvariantError) Unwrap() error { return e.Underlying }

// MultiError aggregates several non-fatal errors collected during a phase.
type MultiError struct {
	Errors []error
}

func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

func (e *MultiError) Unwrap() []error { return e.Errors }
