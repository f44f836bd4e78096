package flow

import (
	"errors"
	"fmt"
)

// Error is a user-facing outcome of the machine with a stable code for logs.
type Error struct {
	code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the machine-readable error code.
func (e *Error) Code() string { return e.code }

var (
	// ErrValidation means the input was rejected and the same step is prompted again.
	ErrValidation = &Error{code: "validation", msg: "flow: invalid input"}
	// ErrAccessDenied means a non-admin attempted an admin step.
	ErrAccessDenied = &Error{code: "access_denied", msg: "flow: access denied"}
	// ErrNotFound means a category or book id from a button does not exist.
	ErrNotFound = &Error{code: "not_found", msg: "flow: not found"}
	// ErrNoFileAttached means a download was requested for a book without a file.
	ErrNoFileAttached = &Error{code: "no_file_attached", msg: "flow: book has no file"}
	// ErrUnexpectedInput means the event does not belong to the user's current step.
	ErrUnexpectedInput = &Error{code: "unexpected_input", msg: "flow: unexpected input"}
	// ErrCatalogUnavailable wraps store failures surfaced to the user.
	ErrCatalogUnavailable = &Error{code: "catalog_unavailable", msg: "flow: catalog unavailable"}
)

// wrapUnavailable keeps flow errors as they are and tags anything else as a store failure.
func wrapUnavailable(err error) error {
	if err == nil {
		return ErrCatalogUnavailable
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
}
