package conversation

import "fmt"

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeForbidden  ErrorType = "FORBIDDEN"
	ErrTypeStorage    ErrorType = "STORAGE"
)

// Error is the typed failure returned by the conversation and chat services.
// Handlers map Type onto an HTTP status.
type Error struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("conversation %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("conversation %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewValidationError(operation, msg string) *Error {
	return &Error{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation, msg string) *Error {
	return &Error{Type: ErrTypeNotFound, Operation: operation, Message: msg}
}

func NewForbiddenError(operation, msg string) *Error {
	return &Error{Type: ErrTypeForbidden, Operation: operation, Message: msg}
}

func NewStorageError(operation, msg string, cause error) *Error {
	return &Error{Type: ErrTypeStorage, Operation: operation, Message: msg, Cause: cause}
}
