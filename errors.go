package captcha

import "fmt"

// Kind classifies a captcha failure.
type Kind int

const (
	// KindInvalidResponse covers a missing, duplicated or malformed token, or
	// an unusable request.
	KindInvalidResponse Kind = iota + 1
	// KindAPIFailure covers any fault reaching or interpreting the
	// verification endpoint.
	KindAPIFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidResponse:
		return "invalid_response"
	case KindAPIFailure:
		return "api_failure"
	default:
		return "unknown"
	}
}

// Error is the base failure type returned by the validator and the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

var (
	// ErrInvalidResponse matches any *Error of kind KindInvalidResponse with errors.Is.
	ErrInvalidResponse = &Error{Kind: KindInvalidResponse}
	// ErrAPIFailure matches any *Error of kind KindAPIFailure with errors.Is.
	ErrAPIFailure = &Error{Kind: KindAPIFailure}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("captcha %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("captcha %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func invalidResponse(msg string, cause error) *Error {
	return &Error{Kind: KindInvalidResponse, Message: msg, Err: cause}
}

func apiFailure(msg string, cause error) *Error {
	return &Error{Kind: KindAPIFailure, Message: msg, Err: cause}
}
