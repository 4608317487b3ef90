// package services implements HTTP clients for remote services
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/shared"
)

// CredentialSource supplies the bearer token for each request. An empty credential
// means the request goes out without an Authorization header.
type CredentialSource interface {
	Credential(ctx context.Context) (models.Credential, error)
}

// Op names a playlist operation.
type Op string

const (
	OpFetch Op = "fetch"
	OpAdd   Op = "add"
	OpClear Op = "clear"
)

func (o Op) sentinel() error {
	switch o {
	case OpFetch:
		return shared.ErrFetchFailed
	case OpAdd:
		return shared.ErrAddFailed
	case OpClear:
		return shared.ErrClearFailed
	}
	return shared.ErrAPIRequest
}

// OpError is the single failure signal of a playlist operation.
//
// errors.Is matches the operation's sentinel ([shared.ErrFetchFailed], [shared.ErrAddFailed],
// [shared.ErrClearFailed]) as well as [shared.ErrAPIRequest].
type OpError struct {
	Op     Op
	Status int // HTTP status, 0 when no response was received
	Detail string
	Cause  error
}

func (e *OpError) Error() string {
	msg := e.Op.sentinel().Error()
	switch {
	case e.Status != 0 && e.Detail != "":
		msg = fmt.Sprintf("%s: %d %s: %s", msg, e.Status, http.StatusText(e.Status), e.Detail)
	case e.Status != 0:
		msg = fmt.Sprintf("%s: %d %s", msg, e.Status, http.StatusText(e.Status))
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *OpError) Unwrap() error {
	return e.Cause
}

func (e *OpError) Is(target error) bool {
	return target == e.Op.sentinel() || target == shared.ErrAPIRequest
}

// StatusOf returns the HTTP status carried by an [*OpError] in err's chain, or 0.
func StatusOf(err error) int {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Status
	}
	return 0
}
