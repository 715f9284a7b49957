// Package errors defines the typed error taxonomy used across the datasight
// pipeline.
//
// Errors fall into the categories laid out by the pipeline contract:
//
//   - Input errors (empty/unsupported sources) surface before any stage runs
//   - NotFittedError guards model usage before training
//   - DimensionError reports shape mismatches between matrices
//   - ValueError and ValidationError report bad argument values
//
// All constructors return errors that participate in errors.Is/errors.As
// chains and carry stack traces via cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for errors.Is comparisons.
var (
	// ErrEmptyData indicates an input with no rows or no columns.
	ErrEmptyData = errors.New("empty data")

	// ErrNotFitted indicates a model was used before training.
	ErrNotFitted = errors.New("model is not fitted")

	// ErrUnsupportedSource indicates an ingestion source the reader cannot handle.
	ErrUnsupportedSource = errors.New("unsupported data source")
)

// ValueError reports an invalid argument value passed to an operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ValidationError reports a field whose value failed validation.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s (got %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, value interface{}) error {
	return errors.WithStack(&ValidationError{Field: field, Message: message, Value: value})
}

// DimensionError reports a mismatch between expected and actual dimensions.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: dimension mismatch on axis %d: expected %d, got %d",
		e.Op, e.Axis, e.Expected, e.Got)
}

// NewDimensionError creates a DimensionError for the given operation.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// NotFittedError reports usage of an untrained model.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s.%s: model is not fitted; call Fit first", e.ModelName, e.Method)
}

func (e *NotFittedError) Unwrap() error { return ErrNotFitted }

// NewNotFittedError creates a NotFittedError for the given model and method.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// ModelError wraps an underlying cause with the operation that failed.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ModelError) Unwrap() error { return e.Err }

// NewModelError creates a ModelError wrapping cause.
func NewModelError(op, message string, cause error) error {
	return errors.WithStack(&ModelError{Op: op, Message: message, Err: cause})
}

// InputError reports a source that could not produce a usable dataset.
// Ingestion failures block pipeline entry entirely.
type InputError struct {
	Source  string
	Message string
	Err     error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("input %s: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("input %s: %s", e.Source, e.Message)
}

func (e *InputError) Unwrap() error { return e.Err }

// NewInputError creates an InputError for the given source.
func NewInputError(source, message string, cause error) error {
	return errors.WithStack(&InputError{Source: source, Message: message, Err: cause})
}

// Recover converts a panic into an error assigned to *errp, preserving the
// operation name. Intended for use as a deferred call at the top of numeric
// routines.
func Recover(errp *error, op string) {
	if r := recover(); r != nil {
		*errp = errors.Newf("%s: panic: %v", op, r)
	}
}

// Wrap adds a message to err, returning nil when err is nil.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf adds a formatted message to err, returning nil when err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
