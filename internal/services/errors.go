package services

import "fmt"

// ValidationError reports malformed or incomplete input: a template
// without questions, a choice question without options, a channel
// mismatch. No partial write happens when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DuplicateError reports a uniqueness violation on the customer
// (business, email) key. Batch paths surface it as a skip-with-warning;
// single-add paths reject hard.
type DuplicateError struct {
	Email string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("customer with email %q already exists", e.Email)
}

// ParseError reports an unusable CSV file: too few lines or a missing
// required header.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// InvalidStateError reports an operation attempted against a request
// that is not in the required status.
type InvalidStateError struct {
	Current  string
	Required string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("request is %s, operation requires %s", e.Current, e.Required)
}
