package workorder

import "fmt"

// Kind classifies a transition rejection for callers that branch on the
// failure mode (HTTP status mapping, form display).
type Kind string

const (
	KindNotFound               Kind = "not_found"
	KindAlreadyDeleted         Kind = "already_deleted"
	KindAlreadyTerminal        Kind = "already_terminal"
	KindIllegalTransition      Kind = "illegal_transition"
	KindInsufficientPermission Kind = "insufficient_permission"
	KindMissingRequiredField   Kind = "missing_required_field"
	KindNoAvailableDriver      Kind = "no_available_driver"
	KindInsufficientInventory  Kind = "insufficient_inventory"
	KindStorageFailure         Kind = "storage_failure"
)

// Error is a typed transition rejection with a message fit for a form.
type Error struct {
	Kind  Kind
	Field string // set for KindMissingRequiredField
	Msg   string
	Err   error // underlying cause, set for KindStorageFailure
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the rejection kind from an error returned by this
// package. Unrecognized errors are classified as storage failures, the
// retryable catch-all.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindStorageFailure
}

// Retryable reports whether the caller should re-check state and retry,
// rather than show the message to the user as-is.
func Retryable(err error) bool {
	return KindOf(err) == KindStorageFailure
}

func errNotFound(id string) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("Work order %s was not found.", id)}
}

func errAlreadyDeleted(id string) *Error {
	return &Error{Kind: KindAlreadyDeleted, Msg: fmt.Sprintf("Work order %s has been deleted.", id)}
}

func errAlreadyTerminal(s Status) *Error {
	return &Error{Kind: KindAlreadyTerminal, Msg: fmt.Sprintf("Work order is already %s and cannot change status.", s)}
}

func errUnknownStatus(s Status) *Error {
	return &Error{Kind: KindIllegalTransition, Msg: fmt.Sprintf("Unknown status %q.", string(s))}
}

func errIllegalTransition(from, to Status) *Error {
	return &Error{Kind: KindIllegalTransition, Msg: fmt.Sprintf("Cannot move a work order from %s to %s.", from, to)}
}

func errInsufficientPermission(role Role, to Status) *Error {
	return &Error{Kind: KindInsufficientPermission, Msg: fmt.Sprintf("Role %s is not permitted to mark a work order %s.", role, to)}
}

func errMissingField(field, human string) *Error {
	return &Error{Kind: KindMissingRequiredField, Field: field, Msg: human}
}

func errNoAvailableDriver() *Error {
	return &Error{Kind: KindNoAvailableDriver, Msg: "Scheduling requires at least one assignee with a valid driver license."}
}

func errStorage(op string, err error) *Error {
	return &Error{Kind: KindStorageFailure, Msg: fmt.Sprintf("Could not save the change (%s). Please retry.", op), Err: err}
}
