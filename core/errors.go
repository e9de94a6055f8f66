package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// MatchError reports a partial-name lookup that did not resolve to exactly
// one item. Candidates holds the zero or several names that matched.
type MatchError struct {
	Kind       string // "course", "quiz", "assignment", "student"
	Name       string
	Candidates []string
}

func NewMatchError(kind, name string, candidates []string) error {
	return &MatchError{Kind: kind, Name: name, Candidates: candidates}
}

func (err MatchError) Error() string {
	if len(err.Candidates) == 0 {
		return fmt.Sprintf("no %s matched %q", err.Kind, err.Name)
	}
	return fmt.Sprintf("multiple %ss matched %q", err.Kind, err.Name)
}

// IsMatchError unwraps err down to a *MatchError if there is one.
func IsMatchError(err error) (*MatchError, bool) {
	me, ok := errors.Cause(err).(*MatchError)
	return me, ok
}

// StatusError carries the process exit code the wrapped error should
// terminate with.
type StatusError struct {
	Code int
	Err  error
}

func NewStatusError(code int, err error) error {
	return &StatusError{Code: code, Err: err}
}

func (err StatusError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// IsStatusError unwraps err down to a *StatusError if there is one.
func IsStatusError(err error) (*StatusError, bool) {
	se, ok := errors.Cause(err).(*StatusError)
	return se, ok
}
