// Package service contains the business logic of the application. Handlers
// in app/ only translate between HTTP and the methods defined here
package service

import "errors"

// Kind classifies an error for the transport layer
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindValidationFailure
	KindDependencyFailure
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidationFailure:
		return "validation_failure"
	case KindDependencyFailure:
		return "dependency_failure"
	default:
		return "internal"
	}
}

// Error is an error with a message that is safe to show to users
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newErr(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

var (
	ErrEventNotFound  = newErr(KindNotFound, "event does not exist")
	ErrInviteNotFound = newErr(KindNotFound, "invite does not exist")
	ErrUserNotFound   = newErr(KindNotFound, "user does not exist in the system")

	ErrDuplicateInvite       = newErr(KindConflict, "guest has already been invited to this event")
	ErrInviteAlreadyAccepted = newErr(KindConflict, "invitation already accepted")
	ErrEmailTaken            = newErr(KindConflict, "a user with this email already exists")

	ErrMissingToken       = newErr(KindUnauthorized, "auth token required")
	ErrInvalidToken       = newErr(KindUnauthorized, "invalid token")
	ErrUserInactive       = newErr(KindUnauthorized, "user's account is not activated")
	ErrInvalidCredentials = newErr(KindUnauthorized, "invalid credentials")

	ErrResetKeyInvalid = newErr(KindValidationFailure, "password reset link is invalid or expired")

	ErrUploadFailure        = newErr(KindDependencyFailure, "failed to create the invitation qr code, please try again")
	ErrEmailDeliveryFailure = newErr(KindDependencyFailure, "the invite was created but the invitation email could not be sent")
)

// ValidationError wraps a failed input check
func ValidationError(err error) error {
	return &Error{Kind: KindValidationFailure, Msg: err.Error()}
}

// KindOf returns the kind of the first *Error found in err's chain, or
// KindInternal when there is none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// Message returns the user facing message of err
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}

	return "Internal server error"
}
