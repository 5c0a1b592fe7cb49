package safestring

import (
	"errors"
	"strconv"
)

var (
	ErrNullArgument = errors.New("null argument")
	ErrInvalidSize  = errors.New("invalid size")
	ErrFormat       = errors.New("format error")
)

// Kind classifies a rejected call.
type Kind uint8

const (
	KindNone Kind = iota
	KindNullArgument
	KindInvalidSize
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNullArgument:
		return "null-argument"
	case KindInvalidSize:
		return "invalid-size"
	case KindFormat:
		return "format-error"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNullArgument:
		return ErrNullArgument
	case KindInvalidSize:
		return ErrInvalidSize
	case KindFormat:
		return ErrFormat
	default:
		return nil
	}
}

// Error is returned for every rejected call. No byte of the destination was
// written.
type Error struct {
	Op   string
	Kind Kind
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := "safestring: " + e.Op + ": "
	if s := e.Kind.sentinel(); s != nil {
		msg += s.Error()
	} else {
		msg += e.Kind.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the kind carried by err, or KindNone.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

func reject(op string, k Kind, cause error) (Outcome, error) {
	return Outcome{}, &Error{Op: op, Kind: k, Err: cause}
}
