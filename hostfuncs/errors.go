package hostfuncs

import (
	"encoding/json"
	"fmt"

	sdkerrors "github.com/vesselbridge/sdk/domain/errors"
	"github.com/vesselbridge/sdk/wireformat"
)

// ErrorResponse is returned as JSON when a call cannot reach a host service at
// all (unknown function, malformed request, panic). It keeps the guest from
// trapping on such failures.
type ErrorResponse struct {
	// Error is a machine-readable error type identifier (e.g., "VALIDATION_ERROR", "INTERNAL_ERROR").
	Error string `json:"error"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Code is a numeric error code (e.g., 400, 500).
	Code int `json:"code"`
}

// ToJSON serializes the ErrorResponse to JSON bytes.
// Returns nil if serialization fails (which should never happen for this simple type).
func (e ErrorResponse) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// NewValidationError creates an error response for bad input (e.g., malformed JSON).
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Code:    400,
	}
}

// NewNotFoundError creates an error response for unknown handler names.
func NewNotFoundError(name string) ErrorResponse {
	return ErrorResponse{
		Error:   "NOT_FOUND",
		Message: "unknown host function: " + name,
		Code:    404,
	}
}

// NewTooLargeError creates an error response for a request over the
// registry's size limit.
func NewTooLargeError(size, limit int) ErrorResponse {
	return ErrorResponse{
		Error:   "REQUEST_TOO_LARGE",
		Message: fmt.Sprintf("request size %d exceeds maximum %d bytes", size, limit),
		Code:    413,
	}
}

// NewInternalError creates an error response for unexpected failures.
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: message,
		Code:    500,
	}
}

// NewPanicError creates an error response for recovered panics.
func NewPanicError(panicValue any) ErrorResponse {
	var msg string
	if err, ok := panicValue.(error); ok {
		msg = err.Error()
	} else if s, ok := panicValue.(string); ok {
		msg = s
	} else {
		msg = "panic recovered"
	}
	return ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "panic: " + msg,
		Code:    500,
	}
}

// ToWireError converts err to the error object carried in wire responses.
func ToWireError(err error) *wireformat.ErrorDetail {
	return toWire(sdkerrors.ToErrorDetail(err))
}

func toWire(d *sdkerrors.ErrorDetail) *wireformat.ErrorDetail {
	if d == nil {
		return nil
	}
	return &wireformat.ErrorDetail{
		Wrapped: toWire(d.Wrapped),
		Details: d.Details,
		Message: d.Message,
		Type:    d.Type,
		Code:    d.Code,
		Stack:   d.Stack,
	}
}
