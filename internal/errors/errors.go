package errors

import "fmt"

// ErrorCode represents a Site Scout error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrStorage           ErrorCode = "STORAGE"            // 500, key-value store read/write failed
	ErrRemote            ErrorCode = "REMOTE"             // upstream non-2xx from the agent service
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE" // 502, unexpected response shape
	ErrSessionCreation   ErrorCode = "SESSION_CREATION"   // 502, no session handle returned
	ErrAnswerExhausted   ErrorCode = "ANSWER_EXHAUSTED"   // 503, every fallback tier failed
	ErrBusy              ErrorCode = "BUSY"               // 409, analysis already in flight for this site
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// ScoutError represents a structured error with code, status, and details.
type ScoutError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ScoutError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ScoutError {
	return &ScoutError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a site record cannot be found.
func NewNotFound(identifier string) *ScoutError {
	return &ScoutError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("site not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewStorage creates a 500 error for a failed key-value store operation.
func NewStorage(op string, err error) *ScoutError {
	msg := op
	if err != nil {
		msg = fmt.Sprintf("%s: %v", op, err)
	}
	return &ScoutError{
		Code:    ErrStorage,
		Status:  500,
		Message: msg,
	}
}

// NewRemote creates an error carrying the upstream HTTP status and body.
// The body is kept in Details for logging; it is never shown verbatim to users.
func NewRemote(status int, body string) *ScoutError {
	return &ScoutError{
		Code:    ErrRemote,
		Status:  status,
		Message: fmt.Sprintf("agent service returned status %d", status),
		Details: map[string]any{"status": status, "body": body},
	}
}

// NewMalformedResponse creates a 502 error for an unexpected response shape.
func NewMalformedResponse(msg string) *ScoutError {
	return &ScoutError{
		Code:    ErrMalformedResponse,
		Status:  502,
		Message: msg,
	}
}

// NewSessionCreation creates a 502 error for a session-creation failure.
func NewSessionCreation(msg string) *ScoutError {
	return &ScoutError{
		Code:    ErrSessionCreation,
		Status:  502,
		Message: msg,
	}
}

// NewAnswerExhausted creates a 503 error after every answer fallback tier failed.
func NewAnswerExhausted(question string) *ScoutError {
	return &ScoutError{
		Code:    ErrAnswerExhausted,
		Status:  503,
		Message: "unable to answer after multiple attempts",
		Details: map[string]any{"question": question},
	}
}

// NewBusy creates a 409 error when an analysis is already running for a site.
func NewBusy(siteID string) *ScoutError {
	return &ScoutError{
		Code:    ErrBusy,
		Status:  409,
		Message: fmt.Sprintf("analysis already in progress for site %s", siteID),
		Details: map[string]any{"site_id": siteID},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ScoutError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ScoutError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a ScoutError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*ScoutError); ok {
		return sErr.Code == code
	}
	return false
}

// IsTransport reports whether an error counts as a transport or content
// failure for fallback purposes: upstream non-2xx and malformed responses
// both advance the answer fallback chain.
func IsTransport(err error) bool {
	return Is(err, ErrRemote) || Is(err, ErrMalformedResponse)
}
