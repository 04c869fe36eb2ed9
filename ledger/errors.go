package ledger

import (
	"errors"
	"fmt"
)

// Error is a ledger failure carrying the numeric code reported to clients.
type Error struct {
	code uint32
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Code returns the numeric error code.
func (e *Error) Code() uint32 {
	return e.code
}

var (
	ErrNotOwner            = &Error{code: 100, msg: "caller is not the contract owner"}
	ErrInvalidAmount       = &Error{code: 101, msg: "invalid amount"}
	ErrInsufficientBalance = &Error{code: 102, msg: "insufficient balance"}
	ErrTokenNotRegistered  = &Error{code: 103, msg: "token is not registered"}
	ErrTransferFailed      = &Error{code: 104, msg: "transfer failed"}
	ErrUnauthorized        = &Error{code: 105, msg: "caller is not authorized"}
	ErrInvalidRate         = &Error{code: 106, msg: "invalid rate"}
)

// ErrorCode extracts the code of the ledger error wrapped by err.
func ErrorCode(err error) (uint32, bool) {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.code, true
	}
	return 0, false
}

// FormatError renders err as "<code>: <text>" when it wraps a ledger error.
func FormatError(err error) string {
	if code, ok := ErrorCode(err); ok {
		return fmt.Sprintf("%d: %s", code, err.Error())
	}
	return err.Error()
}
