// Package errors provides the typed errors of the vessel bridge.
// All error types support unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/vesselbridge/sdk/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// Sentinel causes carried inside the typed errors below.
var (
	ErrEmptyThrusterList = stdErrors.New("thruster list is empty")
	ErrForeignThruster   = stdErrors.New("thruster was not created by this vessel")
	ErrHostRejected      = stdErrors.New("host rejected the request")
	ErrNotRegistered     = stdErrors.New("no vessel definition registered")
	ErrFaulted           = stdErrors.New("vessel logic is faulted")
)

// DetailedError is implemented by error types that can describe themselves
// as a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to a structured ErrorDetail.
// Errors that are not DetailedError are categorized as internal.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// ValidationError is returned when an argument fails a boundary check.
// No host call has been made when this error is returned.
type ValidationError struct {
	Err   error
	Op    string
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: invalid %s: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: invalid argument: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ValidationError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: e.Op}
	if e.Field != "" {
		detail.Details = map[string]any{"field": e.Field}
	}
	return detail
}

// HostError is returned when the host signals failure through a sentinel
// result (zero handle, negative or invalid index).
type HostError struct {
	Err error
	Op  string
}

func (e *HostError) Error() string {
	err := e.Err
	if err == nil {
		err = ErrHostRejected
	}
	return fmt.Sprintf("host %s failed: %v", e.Op, err)
}

func (e *HostError) Unwrap() error {
	if e.Err == nil {
		return ErrHostRejected
	}
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *HostError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "host", Code: e.Op}
}

// LifecycleError is returned when a callback arrives in a state that does
// not accept it. The logic has not been invoked.
type LifecycleError struct {
	Op    string
	State string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s not allowed in state %s", e.Op, e.State)
}

// ToErrorDetail implements DetailedError.
func (e *LifecycleError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "lifecycle",
		Code:    e.Op,
		Details: map[string]any{"state": e.State},
	}
}

// ConstructionError is returned when the logic factory fails.
// It is fatal to the entity being created.
type ConstructionError struct {
	Err   error
	Class string
}

func (e *ConstructionError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("construct %s logic: %v", e.Class, e.Err)
	}
	return fmt.Sprintf("construct logic: %v", e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConstructionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "construction", Code: e.Class}
}

// LogicPanicError records a panic recovered from a logic callback.
type LogicPanicError struct {
	Value    any
	Callback string
	Stack    []byte
}

func (e *LogicPanicError) Error() string {
	return fmt.Sprintf("logic panicked in %s: %v", e.Callback, e.Value)
}

// Unwrap exposes ErrFaulted, plus the panic value when it is an error.
func (e *LogicPanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrFaulted, err}
	}
	return []error{ErrFaulted}
}

// ToErrorDetail implements DetailedError.
func (e *LogicPanicError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "panic", Code: e.Callback, Stack: e.Stack}
}

// ConfigError represents a class configuration error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("class config invalid for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("class config invalid: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// SchemaError represents a schema generation error.
type SchemaError struct {
	Err  error
	Type string
}

func (e *SchemaError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("schema error for type %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("schema error: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *SchemaError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: "schema"}
}

// MemoryError represents a guest memory allocation failure.
type MemoryError struct {
	Requested int
	Current   int
	Limit     int
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("memory allocation failed: requested %d bytes, current %d bytes, limit %d bytes",
		e.Requested, e.Current, e.Limit)
}

// ToErrorDetail implements DetailedError.
func (e *MemoryError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: "memory_limit"}
}

// WireFormatError represents a failure encoding or decoding a boundary payload.
type WireFormatError struct {
	Err       error
	Operation string
	Type      string
}

func (e *WireFormatError) Error() string {
	return fmt.Sprintf("wire format %s failed for %s: %v", e.Operation, e.Type, e.Err)
}

func (e *WireFormatError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *WireFormatError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: "wire_format"}
}
