// Package errs provides structured error handling, carrying an operation
// stack, an error kind, and optional request parameters through the call
// chain so the boundary can render a meaningful response.
//
// Modeled on https://github.com/gilcrest/diygoapi and ultimately on
// Rob Pike's upspin error handling.
package errs

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"runtime"
)

// Op describes an operation, usually as the package and method,
// such as "graphAPI.CreateEvent".
type Op string

// Parameter represents the parameter related to the error.
type Parameter string

// Kind defines the kind of error this is.
type Kind uint8

// Str is a convenience for wrapping a plain string as an error.
func Str(s string) error {
	return errors.New(s)
}

const (
	// Other is the fallback for errors not classified below.
	Other Kind = iota
	// Internal means an internal error or inconsistency.
	Internal
	// IO means an external I/O error such as a network failure.
	IO
	// InvalidRequest means the inbound request could not be decoded.
	InvalidRequest
	// Validation means the request or an external payload failed
	// domain validation.
	Validation
	// NotExist means the item does not exist.
	NotExist
	// Unauthenticated means the caller did not present valid
	// authentication credentials.
	Unauthenticated
	// Unauthorized means the caller is authenticated but not permitted
	// to perform the operation.
	Unauthorized
	// Unavailable means a required upstream dependency could not be
	// reached or refused to issue credentials.
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other_error"
	case Internal:
		return "internal_error"
	case IO:
		return "I/O_error"
	case InvalidRequest:
		return "invalid_request_error"
	case Validation:
		return "validation_error"
	case NotExist:
		return "item_does_not_exist"
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	case Unavailable:
		return "upstream_unavailable"
	}

	return "unknown_error_kind"
}

// Error is the type that implements the error interface. An Error value
// may leave some fields unset.
type Error struct {
	// Op is the operation being performed.
	Op Op
	// Kind is the class of error.
	Kind Kind
	// Param is the request parameter related to the error.
	Param Parameter
	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	b := new(bytes.Buffer)

	if e.Kind != 0 {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}

	if e.Param != "" {
		pad(b, ": ")
		b.WriteString("parameter ")
		b.WriteString(string(e.Param))
	}

	if e.Err != nil {
		pad(b, ": ")
		b.WriteString(e.Err.Error())
	}

	if b.Len() == 0 {
		return "no error"
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) isZero() bool {
	return e.Op == "" && e.Kind == 0 && e.Param == "" && e.Err == nil
}

// pad appends str to the buffer if the buffer already has some data.
func pad(b *bytes.Buffer, str string) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(str)
}

// E builds an error value from its arguments. There must be at least one
// argument or E panics. The type of each argument determines its meaning:
//
//	Op: the operation being performed
//	Kind: the class of error
//	Parameter: the request parameter related to the error
//	string: treated as an error message
//	error: the underlying error
//
// If Kind is not specified or Other, the kind of the underlying error is
// promoted, so only the outermost classification needs to set one.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("call to errs.E with no arguments")
	}

	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case Kind:
			e.Kind = arg
		case Parameter:
			e.Param = arg
		case string:
			e.Err = errors.New(arg)
		case *Error:
			cp := *arg
			e.Err = &cp
		case error:
			e.Err = arg
		case nil:
			continue
		default:
			_, file, line, _ := runtime.Caller(1)
			log.Printf("errs.E: bad call from %s:%d: %v", file, line, args)
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	prev, ok := e.Err.(*Error)
	if !ok {
		return e
	}

	// The previous error was also one of ours. Suppress duplications so
	// the message won't contain the same kind twice.
	if prev.Kind == e.Kind {
		prev.Kind = Other
	}

	if e.Kind == Other {
		e.Kind = prev.Kind
		prev.Kind = Other
	}

	return e
}

// KindIs reports whether err, or any error in its chain, is of kind k.
func KindIs(k Kind, err error) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Kind != Other {
			return e.Kind == k
		}
		err = e.Err
	}
	return false
}

// TopKind returns the first non-Other kind in the error chain, or Other.
func TopKind(err error) Kind {
	var e *Error
	for errors.As(err, &e) {
		if e.Kind != Other {
			return e.Kind
		}
		err = e.Err
	}
	return Other
}

// OpStack returns the op chain of the error from outermost to innermost.
func OpStack(err error) []string {
	type o struct {
		Op    string
		Order int
	}

	e := err
	i := 0
	var os []o

	for errors.Unwrap(e) != nil {
		var errsError *Error
		if errors.As(e, &errsError) {
			if errsError.Op != "" {
				op := o{Op: string(errsError.Op), Order: i}
				os = append(os, op)
			}
		}
		e = errors.Unwrap(e)
		i++
	}

	ops := make([]string, 0, len(os))
	for _, op := range os {
		ops = append(ops, op.Op)
	}

	return ops
}
