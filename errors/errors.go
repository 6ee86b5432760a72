package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors. Their codes are part of the interface of the ledger: a
// client tells failures apart by code, so a code is never reused for a
// different meaning.
var (
	// ErrUnauthorized: a required signature or capability is missing.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound: a record, account, mint or wallet does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg: a message is malformed or unknown.
	ErrMsg = Register(4, "invalid message")

	// ErrModel: a model fails its validation and is not persisted.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate: an address is already occupied.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman: the code reached a path it should never reach.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty: a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState: an object is not in the state the operation requires,
	// for example a vault that does not belong to its record.
	ErrState = Register(10, "invalid state")

	// ErrType: a value has an unexpected Go type.
	ErrType = Register(11, "invalid type")

	// ErrInsufficientAmount: a balance cannot cover a transfer or a
	// storage deposit.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	// ErrInput: input that cannot be decoded or parsed.
	ErrInput = Register(13, "invalid input")

	// ErrPrecision: the decimals declared by a transfer differ from the
	// precision of the mint.
	ErrPrecision = Register(14, "precision mismatch")

	// ErrDerivation: an address cannot be derived, or a derivation proof
	// does not reproduce the expected address.
	ErrDerivation = Register(15, "address derivation mismatch")

	// ErrOverflow: a balance or a supply would exceed 64 bits.
	ErrOverflow = Register(16, "value overflow")

	// ErrAmount: an amount that is not acceptable, such as a zero deposit.
	ErrAmount = Register(17, "invalid amount")

	// ErrDatabase: the underlying storage failed.
	ErrDatabase = Register(18, "database")

	// ErrPanic: a handler panicked. The log of such an error is never
	// shown outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry holds every root error by code. Code 1 stands for errors that
// are not rooted in this package.
var registry = map[uint32]*Error{
	internalCode: {code: internalCode, desc: internalLog},
}

// Register declares a root error. It panics when code is taken, so call
// it only from package level variable declarations.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		panic(fmt.Sprintf("error code %d already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error. Errors returned at runtime wrap a root error, so
// that Is and Code can classify them.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string { return e.desc }

// Code returns the code the error was registered with.
func (e Error) Code() uint32 { return e.code }

// New is Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is Wrapf(e, format, args...).
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is reports whether err is e or wraps it. A nil root error matches nil
// errors, typed nils included.
func (e *Error) Is(err error) bool {
	if e == nil {
		if err == nil {
			return true
		}
		v := reflect.ValueOf(err)
		return v.Kind() == reflect.Ptr && v.IsNil()
	}
	for err != nil {
		if err == e {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap prefixes err with description. The innermost wrap records the
// stack. Wrapping nil returns nil so results can be wrapped unchecked.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error  { return e.parent }
func (e *wrappedError) Unwrap() error { return e.parent }

// Recover turns a panic into an ErrPanic assigned to *err. It must be
// deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}
