// Package platformerrors carries a layered error taxonomy so handlers can map
// failures to HTTP statuses without inspecting driver errors directly.
package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Layer identifies where an error originated.
type Layer string

const (
	LayerHandler    Layer = "handler"
	LayerDomain     Layer = "domain"
	LayerRepository Layer = "repository"
	LayerUpstream   Layer = "upstream"
)

// ErrorType classifies an error for HTTP mapping.
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeUnauthorized  ErrorType = "unauthorized"
	ErrorTypeForbidden     ErrorType = "forbidden"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeUpstreamError ErrorType = "upstream_error"
	ErrorTypeDatabaseError ErrorType = "database_error"
	ErrorTypeInternal      ErrorType = "internal"
)

// PlatformError wraps a cause with layer and classification metadata.
type PlatformError struct {
	Layer   Layer
	Type    ErrorType
	Message string
	Cause   error
}

func (e *PlatformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Layer, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Layer, e.Message)
}

func (e *PlatformError) Unwrap() error {
	return e.Cause
}

// NewError creates a classified error without a cause.
func NewError(_ context.Context, layer Layer, errType ErrorType, message string) error {
	return &PlatformError{Layer: layer, Type: errType, Message: message}
}

// AsError wraps a cause, defaulting classification by layer. An already
// classified cause keeps its type.
func AsError(_ context.Context, layer Layer, cause error, message string) error {
	errType := ErrorTypeInternal
	switch layer {
	case LayerRepository:
		errType = ErrorTypeDatabaseError
	case LayerUpstream:
		errType = ErrorTypeUpstreamError
	}
	var pe *PlatformError
	if errors.As(cause, &pe) {
		errType = pe.Type
	}
	return &PlatformError{Layer: layer, Type: errType, Message: message, Cause: cause}
}

// HTTPStatus maps an error to the response status it should produce.
func HTTPStatus(err error) int {
	var pe *PlatformError
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}
	switch pe.Type {
	case ErrorTypeValidation, ErrorTypeUpstreamError:
		// upstream failures surface as generic 400s, details stay server-side
		return http.StatusBadRequest
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
