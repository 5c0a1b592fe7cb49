// Package fmtcheck validates a fmt template against its operands before
// anything is rendered. It walks directives the way fmt does and reports the
// conditions fmt would otherwise print inline as %!... diagnostics.
package fmtcheck

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"
)

var (
	ErrNoVerb     = errors.New("directive without verb")
	ErrBadVerb    = errors.New("unknown verb")
	ErrBadIndex   = errors.New("bad argument index")
	ErrBadWidth   = errors.New("bad width operand")
	ErrBadPrec    = errors.New("bad precision operand")
	ErrMissingArg = errors.New("missing operand")
	ErrExtraArgs  = errors.New("extra operands")
)

// verbs accepted by fmt.Fprintf. %w is only meaningful to fmt.Errorf.
const verbs = "bcdeEfFgGoOpqstTUvxX"

// maxStar mirrors fmt's limit on * width and precision operands.
const maxStar = 1e6

type checker struct {
	format    string
	args      []any
	argNum    int
	reordered bool
	goodIndex bool
}

// Validate reports the first problem fmt would hit rendering format with
// args, or nil.
func Validate(format string, args []any) error {
	c := checker{format: format, args: args}
	return c.run()
}

func (c *checker) run() error {
	end := len(c.format)
	for i := 0; i < end; {
		j := strings.IndexByte(c.format[i:], '%')
		if j < 0 {
			break
		}
		start := i + j
		i = start + 1
		c.goodIndex = true

		for i < end && strings.IndexByte("#0+- ", c.format[i]) >= 0 {
			i++
		}

		var afterIndex bool
		i, afterIndex = c.argIndex(i)

		if i < end && c.format[i] == '*' {
			i++
			if _, ok := c.starArg(); !ok {
				return c.errAt(start, ErrBadWidth)
			}
			afterIndex = false
		} else {
			var present, fits bool
			i, present, fits = skipDigits(c.format, i)
			if !fits {
				return c.errAt(start, ErrBadWidth)
			}
			if afterIndex && present {
				c.goodIndex = false
			}
		}

		if i+1 < end && c.format[i] == '.' {
			i++
			if afterIndex {
				c.goodIndex = false
			}
			i, afterIndex = c.argIndex(i)
			if i < end && c.format[i] == '*' {
				i++
				if prec, ok := c.starArg(); !ok || prec < 0 {
					return c.errAt(start, ErrBadPrec)
				}
				afterIndex = false
			} else {
				var fits bool
				if i, _, fits = skipDigits(c.format, i); !fits {
					return c.errAt(start, ErrBadPrec)
				}
			}
		}

		if !afterIndex {
			i, _ = c.argIndex(i)
		}
		if i >= end {
			return c.errAt(start, ErrNoVerb)
		}
		verb, size := utf8.DecodeRuneInString(c.format[i:])
		i += size

		switch {
		case verb == '%':
		case !c.goodIndex:
			return c.errAt(start, ErrBadIndex)
		case c.argNum >= len(c.args):
			return c.errAt(start, ErrMissingArg)
		case verb == 'w':
			return c.errAt(start, fmt.Errorf("%w %q", ErrBadVerb, verb))
		case (verb >= utf8.RuneSelf || strings.IndexRune(verbs, verb) < 0) && !isFormatter(c.args[c.argNum]):
			return c.errAt(start, fmt.Errorf("%w %q", ErrBadVerb, verb))
		default:
			c.argNum++
		}
	}
	if !c.reordered && c.argNum < len(c.args) {
		return fmt.Errorf("%w: %d unused", ErrExtraArgs, len(c.args)-c.argNum)
	}
	return nil
}

// isFormatter reports whether fmt hands every verb to arg's Format method.
func isFormatter(arg any) bool {
	_, ok := arg.(fmt.Formatter)
	return ok
}

func (c *checker) errAt(offset int, err error) error {
	return fmt.Errorf("offset %d: %w", offset, err)
}

// argIndex consumes an explicit [n] operand index at i.
func (c *checker) argIndex(i int) (int, bool) {
	if i >= len(c.format) || c.format[i] != '[' {
		return i, false
	}
	c.reordered = true
	rest := c.format[i:]
	if len(rest) < 3 {
		c.goodIndex = false
		return i + 1, false
	}
	for k := 1; k < len(rest); k++ {
		if rest[k] != ']' {
			continue
		}
		n, ok := parseIndex(rest[1:k])
		if ok && n >= 1 && n <= len(c.args) {
			c.argNum = n - 1
			return i + k + 1, true
		}
		c.goodIndex = false
		return i + k + 1, ok
	}
	c.goodIndex = false
	return i + 1, false
}

// starArg consumes the operand of a * width or precision.
func (c *checker) starArg() (int64, bool) {
	if c.argNum >= len(c.args) {
		return 0, false
	}
	a := c.args[c.argNum]
	c.argNum++
	var n int64
	switch v := reflect.ValueOf(a); v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > maxStar {
			return 0, false
		}
		n = int64(u)
	default:
		return 0, false
	}
	return n, n <= maxStar && n >= -maxStar
}

func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
		if n > maxStar {
			return 0, false
		}
	}
	return n, true
}

// skipDigits consumes a decimal number at i. fits is false when the number
// exceeds what fmt accepts for a width or precision.
func skipDigits(s string, i int) (next int, present, fits bool) {
	start, n := i, 0
	fits = true
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if n > maxStar {
			fits = false
		}
		n = n*10 + int(s[i]-'0')
		i++
	}
	return i, i > start, fits
}
