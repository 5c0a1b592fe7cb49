// Package zc (zero-copy) holds opt-in helpers that alias terminated byte
// buffers as strings without copying. The returned values share memory with
// their source: the caller must not modify the buffer while a view is alive.
package zc

import (
	"unsafe"

	"github.com/rawbytedev/safestring/internal/common"
)

// Options controls how views are taken.
type Options struct {
	// UnsafeStrings allows aliasing []byte as string. When false, View copies.
	UnsafeStrings bool
	// Limit caps the terminator scan. Zero means len(b).
	Limit int
}

// Viewer takes views of terminated buffers under fixed Options.
type Viewer struct {
	opts Options
}

func New(opts Options) *Viewer {
	return &Viewer{opts: opts}
}

// View returns the text of b up to its terminator.
func (v *Viewer) View(b []byte) string {
	limit := v.opts.Limit
	if limit <= 0 || limit > len(b) {
		limit = len(b)
	}
	n := common.Scan(b, limit)
	if !v.opts.UnsafeStrings {
		return string(b[:n])
	}
	return View(b[:n])
}

// View aliases b up to its first NUL, or all of b when there is none.
func View(b []byte) string {
	n := common.Scan(b, len(b))
	if n == 0 {
		return ""
	}
	return unsafe.String(&b[0], n)
}

// Bytes aliases s as a byte slice. The result must never be written to.
func Bytes(s string) []byte {
	if s == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
