package apperrors

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned when a newer user action replaced an in-flight one
// before its response could be rendered.
var ErrSuperseded = errors.New("superseded by a newer request")

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewShowNotFoundError creates a specific error for a show id the catalog does not know.
func NewShowNotFoundError(showID string) *ErrNotFound {
	return &ErrNotFound{
		Resource: "show",
		ID:       showID,
	}
}

// ErrNetwork is returned when a catalog request could not complete:
// transport failure, timeout, unexpected status or a truncated body.
type ErrNetwork struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ErrNetwork) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("network error during %s", e.Op)
	}
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying transport error.
func (e *ErrNetwork) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrNetwork) Is(target error) bool {
	_, ok := target.(*ErrNetwork)
	return ok
}

// NewNetworkError creates a new ErrNetwork.
func NewNetworkError(op string, err error) *ErrNetwork {
	return &ErrNetwork{Op: op, Err: err}
}

// ErrMalformedResponse is returned when a catalog payload does not have the expected shape.
type ErrMalformedResponse struct {
	Endpoint string
	Reason   string
}

// Error implements the error interface.
func (e *ErrMalformedResponse) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("malformed response: %s", e.Reason)
	}
	return fmt.Sprintf("malformed response from %s: %s", e.Endpoint, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrMalformedResponse) Is(target error) bool {
	_, ok := target.(*ErrMalformedResponse)
	return ok
}

// NewMalformedResponseError creates a new ErrMalformedResponse.
func NewMalformedResponseError(endpoint, reason string) *ErrMalformedResponse {
	return &ErrMalformedResponse{Endpoint: endpoint, Reason: reason}
}

// ErrInvalidArgument is returned when a caller supplies an unusable value,
// such as an empty show id or a control outside any show card.
type ErrInvalidArgument struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Name, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidArgument) Is(target error) bool {
	_, ok := target.(*ErrInvalidArgument)
	return ok
}

// NewInvalidArgumentError creates a new ErrInvalidArgument.
func NewInvalidArgumentError(name, reason string) *ErrInvalidArgument {
	return &ErrInvalidArgument{Name: name, Reason: reason}
}
