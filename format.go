package safestring

import (
	"fmt"

	"github.com/rawbytedev/safestring/internal/common"
	"github.com/rawbytedev/safestring/internal/fmtcheck"
)

// boundedWriter keeps at most len(buf) bytes and counts everything offered.
type boundedWriter struct {
	buf  []byte
	used int
	want int
}

func (w *boundedWriter) Write(p []byte) (int, error) {
	w.want += len(p)
	w.used += copy(w.buf[w.used:], p)
	return len(p), nil
}

// Format renders format with args into dst using fmt verbs. The template's
// logical content ends at its first terminator. The template is validated
// before anything is written; a malformed template is rejected with
// ErrFormat. Rendered output beyond len(dst)-1 bytes is dropped and reported
// as truncation.
func Format(dst, format []byte, args ...any) (Outcome, error) {
	const op = "format"
	if dst == nil || format == nil {
		return reject(op, KindNullArgument, nil)
	}
	return render(op, dst, string(format[:common.Scan(format, len(format))]), args)
}

// FormatString is Format with a Go string template. A terminator inside the
// template ends it.
func FormatString(dst []byte, format string, args ...any) (Outcome, error) {
	const op = "format"
	if dst == nil {
		return reject(op, KindNullArgument, nil)
	}
	for i := 0; i < len(format); i++ {
		if format[i] == common.Terminator {
			format = format[:i]
			break
		}
	}
	return render(op, dst, format, args)
}

func render(op string, dst []byte, format string, args []any) (Outcome, error) {
	if len(dst) == 0 {
		return reject(op, KindInvalidSize, nil)
	}
	if err := fmtcheck.Validate(format, args); err != nil {
		return reject(op, KindFormat, err)
	}
	w := boundedWriter{buf: dst[:len(dst)-1]}
	// boundedWriter never fails, so neither does Fprintf.
	_, _ = fmt.Fprintf(&w, format, args...)
	if w.want < len(dst) {
		dst[w.want] = common.Terminator
		return ok(w.want), nil
	}
	dst[len(dst)-1] = common.Terminator
	return truncated(len(dst) - 1), nil
}
