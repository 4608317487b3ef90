package session

import (
	"errors"
	"fmt"

	"github.com/desertthunder/ytpm/internal/shared"
)

// SignInKind classifies a failed sign-in.
type SignInKind int

const (
	// SignInOther covers provider rejection, timeouts, bad callbacks and storage failures. Retryable.
	SignInOther SignInKind = iota
	// SignInCancelled means the user dismissed the consent screen or interrupted the wait.
	SignInCancelled
)

func (k SignInKind) String() string {
	switch k {
	case SignInCancelled:
		return "cancelled"
	default:
		return "other"
	}
}

// SignInError is returned by every failed sign-in.
//
// errors.Is matches [shared.ErrSignInFailed] for every kind and [shared.ErrSignInCancelled]
// only for [SignInCancelled].
type SignInError struct {
	Kind  SignInKind
	Cause error
}

func (e *SignInError) Error() string {
	msg := shared.ErrSignInFailed.Error()
	if e.Kind == SignInCancelled {
		msg = shared.ErrSignInCancelled.Error()
	}
	if e.Cause == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

func (e *SignInError) Unwrap() error {
	return e.Cause
}

func (e *SignInError) Is(target error) bool {
	switch target {
	case shared.ErrSignInFailed:
		return true
	case shared.ErrSignInCancelled:
		return e.Kind == SignInCancelled
	}
	return false
}

// Retryable reports whether trying again without user action could succeed.
func (e *SignInError) Retryable() bool {
	return e.Kind != SignInCancelled
}

// IsCancelled reports whether err is a sign-in the user cancelled.
func IsCancelled(err error) bool {
	var sie *SignInError
	return errors.As(err, &sie) && sie.Kind == SignInCancelled
}

func cancelled(cause error) *SignInError {
	return &SignInError{Kind: SignInCancelled, Cause: cause}
}

func failed(cause error) *SignInError {
	return &SignInError{Kind: SignInOther, Cause: cause}
}
