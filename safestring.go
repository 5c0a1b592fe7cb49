// Package safestring implements bounded operations over NUL-terminated byte
// strings held in caller-owned fixed-capacity buffers.
//
// A destination's capacity is its length: nothing is ever written at or past
// len(dst). A source's logical content ends at its first NUL byte or at the
// end of the slice, whichever comes first. A nil slice is an absent argument.
package safestring

import (
	"strconv"

	"github.com/rawbytedev/safestring/internal/common"
)

// Status is the state of a mutating call. The zero value is StatusRejected.
type Status uint8

const (
	StatusRejected Status = iota
	StatusOK
	StatusTruncated
)

func (s Status) String() string {
	switch s {
	case StatusRejected:
		return "rejected"
	case StatusOK:
		return "ok"
	case StatusTruncated:
		return "truncated"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Outcome reports the resulting logical length of the destination and
// whether input was dropped to fit.
type Outcome struct {
	N      int
	Status Status
}

func ok(n int) Outcome        { return Outcome{N: n, Status: StatusOK} }
func truncated(n int) Outcome { return Outcome{N: n, Status: StatusTruncated} }

// OK reports full success.
func (o Outcome) OK() bool { return o.Status == StatusOK }

// Truncated reports success with trailing input discarded.
func (o Outcome) Truncated() bool { return o.Status == StatusTruncated }

// Rejected reports that the call wrote nothing.
func (o Outcome) Rejected() bool { return o.Status == StatusRejected }

func (o Outcome) String() string {
	if o.Status == StatusRejected {
		return o.Status.String()
	}
	return o.Status.String() + "(" + strconv.Itoa(o.N) + ")"
}

// Copy copies the logical content of src into dst, truncating to
// len(dst)-1 bytes, and terminates dst. At most len(dst) bytes of src are
// examined, so an unterminated src is safe.
func Copy(dst, src []byte) (Outcome, error) {
	const op = "copy"
	if dst == nil || src == nil {
		return reject(op, KindNullArgument, nil)
	}
	if len(dst) == 0 {
		return reject(op, KindInvalidSize, nil)
	}
	return copyInto(dst, src), nil
}

// copyInto expects len(dst) >= 1.
func copyInto(dst, src []byte) Outcome {
	n := common.Scan(src, len(dst))
	if n <= len(dst)-1 {
		copy(dst, src[:n])
		dst[n] = common.Terminator
		return ok(n)
	}
	last := len(dst) - 1
	copy(dst, src[:last])
	dst[last] = common.Terminator
	return truncated(last)
}

// Concat appends the logical content of src to the string already in dst.
// A dst with no terminator within its capacity is treated as full: nothing
// is appended, its last byte becomes the terminator and the call reports
// truncation.
func Concat(dst, src []byte) (Outcome, error) {
	const op = "concat"
	if dst == nil || src == nil {
		return reject(op, KindNullArgument, nil)
	}
	if len(dst) == 0 {
		return reject(op, KindInvalidSize, nil)
	}
	cur := common.Scan(dst, len(dst))
	if cur == len(dst) {
		dst[cur-1] = common.Terminator
		return truncated(cur - 1), nil
	}
	o := copyInto(dst[cur:], src)
	o.N += cur
	return o, nil
}

// Length returns the number of bytes before the first terminator, examining
// at most maxlen bytes. Reaching maxlen or the end of src is not an error.
func Length(src []byte, maxlen int) (int, error) {
	const op = "length"
	if src == nil {
		_, err := reject(op, KindNullArgument, nil)
		return 0, err
	}
	if maxlen < 0 {
		_, err := reject(op, KindInvalidSize, nil)
		return 0, err
	}
	return common.Scan(src, maxlen), nil
}

// Compare compares at most maxlen bytes of s1 and s2 as unsigned bytes. The
// result is negative, zero or positive as s1 sorts before, equal to or after
// s2 within the bound. A position past the end of a slice reads as a
// terminator.
func Compare(s1, s2 []byte, maxlen int) (int, error) {
	const op = "compare"
	if s1 == nil || s2 == nil {
		_, err := reject(op, KindNullArgument, nil)
		return 0, err
	}
	if maxlen < 0 {
		_, err := reject(op, KindInvalidSize, nil)
		return 0, err
	}
	for i := 0; i < maxlen; i++ {
		c1, c2 := common.At(s1, i), common.At(s2, i)
		if c1 != c2 {
			return int(c1) - int(c2), nil
		}
		if c1 == common.Terminator {
			break
		}
	}
	return 0, nil
}
