package safestring

import (
	"github.com/rawbytedev/safestring/internal/common"
)

// Text returns the logical content of b as a Go string.
func Text(b []byte) string {
	return string(b[:common.Scan(b, len(b))])
}

// Terminate returns a new NUL-terminated copy of s. Content after a NUL
// inside s is kept in the slice but is not part of the logical string.
func Terminate(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}
