package service

import "errors"

// Error taxonomy. Handlers map these to HTTP status codes.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrUpstream     = errors.New("upstream failure")
)

// sentinelError carries a caller-facing message, its taxonomy sentinel and,
// for upstream failures, the underlying cause.
type sentinelError struct {
	msg      string
	sentinel error
	cause    error
}

func (e sentinelError) Error() string {
	return e.msg
}

func (e sentinelError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.sentinel}
	}
	return []error{e.sentinel, e.cause}
}

func wrapSentinel(msg string, sentinel error) error {
	return sentinelError{msg: msg, sentinel: sentinel}
}

// upstream wraps a store or collaborator failure behind a generic message.
func upstream(msg string, cause error) error {
	return sentinelError{msg: msg, sentinel: ErrUpstream, cause: cause}
}

// Cause returns the underlying failure of an upstream error, or err itself.
func Cause(err error) error {
	var se sentinelError
	if errors.As(err, &se) && se.cause != nil {
		return se.cause
	}
	return err
}
