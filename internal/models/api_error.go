package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure inside the query path.
type ErrorKind string

const (
	ErrorKindParameter ErrorKind = "parameter_error" // malformed query-string input
	ErrorKindStore     ErrorKind = "store_error"     // the store rejected or failed the read
	ErrorKindTransform ErrorKind = "transform_error" // the result could not be made JSON-safe
	ErrorKindUnknown   ErrorKind = "unknown_error"
)

// QueryError is the error type returned by the query service.
type QueryError struct {
	Kind ErrorKind
	Op   string // parameter name or store operation
	Code string // AWS error code, when the store returned one
	Err  error
}

// Error makes QueryError implement the error interface.
func (e *QueryError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewParameterError reports an invalid query-string parameter.
func NewParameterError(param string, err error) *QueryError {
	return &QueryError{Kind: ErrorKindParameter, Op: param, Err: err}
}

// NewStoreError wraps a failed store operation.
func NewStoreError(op, code string, err error) *QueryError {
	return &QueryError{Kind: ErrorKindStore, Op: op, Code: code, Err: err}
}

// NewTransformError wraps a failed conversion of the result set.
func NewTransformError(op string, err error) *QueryError {
	return &QueryError{Kind: ErrorKindTransform, Op: op, Err: err}
}

// KindOf returns the kind of the first QueryError in err's chain.
func KindOf(err error) ErrorKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ErrorKindUnknown
}

// CodeOf returns the store error code carried by err, if any.
func CodeOf(err error) string {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}
