package usecase

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is; use errors.As(*Error) for the details.
var (
	ErrValidation   = errors.New("validation_error")
	ErrNotFound     = errors.New("not_found")
	ErrUpstream     = errors.New("upstream_error")
	ErrPartialOrder = errors.New("partial_order")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrDuplicate    = errors.New("duplicate idempotency key")
)

// ErrRecordNotFound is returned by store adapters when a keyed lookup or
// keyed write matches nothing.
var ErrRecordNotFound = errors.New("record not found")

type Error struct {
	Kind    error
	Msg     string
	Err     error
	OrderID string // set for ErrPartialOrder
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

func validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Msg: what + " not found"}
}

// upstream wraps a store failure. Errors that already carry a kind pass through.
func upstream(op string, err error) error {
	var ue *Error
	if errors.As(err, &ue) {
		return err
	}
	return &Error{Kind: ErrUpstream, Msg: op, Err: err}
}

// storeErr maps ErrRecordNotFound to ErrNotFound and everything else to ErrUpstream.
func storeErr(op, what string, err error) error {
	if errors.Is(err, ErrRecordNotFound) {
		return notFound(what)
	}
	return upstream(op, err)
}

// OrderIDOf returns the persisted order id carried by a partial-order error.
func OrderIDOf(err error) string {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.OrderID
	}
	return ""
}
