package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type contextKey string

// RequestIDKey is the context key the HTTP middleware stores the request ID under.
const RequestIDKey contextKey = "requestID"

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"

	// Provider call outcomes.
	ErrorTypeInvalidCredentials  ErrorType = "INVALID_CREDENTIALS"
	ErrorTypeAccessForbidden     ErrorType = "ACCESS_FORBIDDEN"
	ErrorTypeProviderBadRequest  ErrorType = "PROVIDER_BAD_REQUEST"
	ErrorTypeRateLimited         ErrorType = "RATE_LIMITED"
	ErrorTypeProviderUnavailable ErrorType = "PROVIDER_UNAVAILABLE"
	ErrorTypeNetwork             ErrorType = "NETWORK_ERROR"
	ErrorTypeTimeout             ErrorType = "TIMEOUT"

	// Provider returned 200 with an unusable body.
	ErrorTypeInvalidResponse  ErrorType = "INVALID_RESPONSE"
	ErrorTypeEmptyResponse    ErrorType = "EMPTY_RESPONSE"
	ErrorTypeUpstreamResponse ErrorType = "UPSTREAM_RESPONSE"

	ErrorTypePersistence  ErrorType = "PERSISTENCE"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeInternal     ErrorType = "INTERNAL"
)

// Layer represents the application layer where the error occurred.
type Layer string

const (
	LayerRepository     Layer = "repository"
	LayerDomain         Layer = "domain"
	LayerHandler        Layer = "handler"
	LayerInfrastructure Layer = "infrastructure"
)

// PlatformError carries the classified error type plus request metadata.
type PlatformError struct {
	UUID      string
	Type      ErrorType
	Message   string
	Err       error
	RequestID string
	Layer     Layer
	Timestamp time.Time
}

// Error implements the error interface.
func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s][%s] %s: %v", e.Layer, e.Type, e.UUID, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s][%s] %s", e.Layer, e.Type, e.UUID, e.Message)
}

// Unwrap returns the underlying error.
func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewError creates a PlatformError annotated with the request ID from ctx.
func NewError(ctx context.Context, layer Layer, errorType ErrorType, message string, err error, uuid string) *PlatformError {
	return &PlatformError{
		UUID:      uuid,
		Type:      errorType,
		Message:   message,
		Err:       err,
		RequestID: requestIDFromContext(ctx),
		Layer:     layer,
		Timestamp: time.Now().UTC(),
	}
}

// GetPlatformError extracts a PlatformError from an error chain, or nil.
func GetPlatformError(err error) *PlatformError {
	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		return platformErr
	}
	return nil
}

// TypeOf returns the classified type of an error, or ErrorTypeInternal for
// unclassified errors.
func TypeOf(err error) ErrorType {
	if platformErr := GetPlatformError(err); platformErr != nil {
		return platformErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err carries the given classified type.
func IsType(err error, errorType ErrorType) bool {
	return TypeOf(err) == errorType
}
