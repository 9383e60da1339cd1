package shared

import "errors"

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail indicates another client already uses the email.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrHasPayments blocks client deletion while payments reference it.
	ErrHasPayments = errors.New("client has payments")
	// ErrUnknownClient indicates a payment references a nonexistent client.
	ErrUnknownClient = errors.New("unknown client")
)
