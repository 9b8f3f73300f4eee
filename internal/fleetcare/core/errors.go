package core

import (
	"errors"
	"fmt"

	"github.com/autopeer-io/fleetcare/internal/fleetcare/core/model"
)

// ErrInvalidCredentials is returned by a login with an unknown email or a
// wrong password. The two cases are not told apart.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an unknown identifier.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// UnsupportedMediaError rejects an attached document by type or size.
type UnsupportedMediaError struct {
	Name   string
	Type   string
	Size   int64
	Reason string
}

func (e *UnsupportedMediaError) Error() string {
	return fmt.Sprintf("document %q (%s, %d bytes) rejected: %s", e.Name, e.Type, e.Size, e.Reason)
}

// DispatchError wraps a failed notification delivery. It is logged by the
// dispatcher and never returned to the caller of the originating operation.
type DispatchError struct {
	Kind      model.NotificationKind
	SubjectID string
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s for %s: %v", e.Kind, e.SubjectID, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsUnsupportedMedia reports whether err is or wraps an UnsupportedMediaError.
func IsUnsupportedMedia(err error) bool {
	var merr *UnsupportedMediaError
	return errors.As(err, &merr)
}
