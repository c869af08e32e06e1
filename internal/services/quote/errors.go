package quote

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type QuoteError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *QuoteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("quote %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("quote %s error: %s", e.Type, e.Message)
}

func NewNetworkError(msg string, cause error) *QuoteError {
	return &QuoteError{Type: ErrTypeNetwork, Message: msg, Cause: cause}
}

func NewProviderError(code int, msg string) *QuoteError {
	return &QuoteError{Type: ErrTypeProvider, Code: code, Message: msg}
}
