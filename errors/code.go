package errors

import (
	"errors"
	"fmt"
	"reflect"
)

const (
	// SuccessCode is returned for a nil error.
	SuccessCode = 0

	// All unclassified errors that do not provide a code are clubbed
	// under an internal error code and a generic message instead of
	// detailed error string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the code and log message that should be presented to the
// caller of a failed operation. Any error that does not provide code
// information is categorized as error with code 1.
// When not running in a debug mode all messages of errors that do not
// provide a code are replaced with generic "internal error".
func Info(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessCode, ""
	}

	// Only non-internal errors information can be exposed. Any error that
	// does not explicitly expose its state by providing a code must be
	// silenced.
	if code := Code(err); code != internalCode {
		if debug {
			return code, fmt.Sprintf("%+v", err)
		}
		return code, err.Error()
	}

	if debug {
		return internalCode, fmt.Sprintf("%+v", err)
	}
	return internalCode, internalLog
}

type coder interface {
	Code() uint32
}

// Code returns the code of the root error wrapped by err, SuccessCode for
// nil and 1 for errors that are not rooted in this package.
func Code(err error) uint32 {
	if errIsNil(err) {
		return SuccessCode
	}

	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}

// errIsNil returns true if value represented by the given error is nil.
//
// Most of the time a simple == check is enough. There is a very narrowed
// spectrum of cases (mostly in tests) where a more sophisticated check is
// required.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}

// Redact replace all errors that do not initialize with a registered error
// with a generic internal error instance.
//
// This is a no-operation function when running in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return errors.New(internalLog)
	}
	if Code(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}

// FromCode returns the error described by the code and log of a failed
// operation. It is the inverse of Info: the result is rooted in the error
// registered with that code, so Is works on it. Unknown codes are
// reported as internal errors.
func FromCode(code uint32, log string) error {
	if code == SuccessCode {
		return nil
	}
	root, ok := registry[code]
	if !ok {
		root = registry[internalCode]
	}
	return &reportedError{root: root, log: log}
}

// reportedError is an error received as a code and a log.
type reportedError struct {
	root *Error
	log  string
}

func (e *reportedError) Error() string {
	return e.log
}

func (e *reportedError) Cause() error {
	return e.root
}
