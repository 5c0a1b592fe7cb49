package zc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/safestring"
)

func TestViewAliasesBuffer(t *testing.T) {
	buf := make([]byte, 16)
	_, err := safestring.Copy(buf, safestring.Terminate("hello"))
	require.NoError(t, err)

	s := View(buf)
	require.Equal(t, "hello", s)
	require.Equal(t, unsafe.Pointer(&buf[0]), unsafe.Pointer(unsafe.StringData(s)))
}

func TestViewWithoutTerminator(t *testing.T) {
	assert.Equal(t, "abc", View([]byte("abc")))
	assert.Equal(t, "", View([]byte{0, 'x'}))
	assert.Equal(t, "", View(nil))
}

func TestViewerCopiesByDefault(t *testing.T) {
	buf := []byte("abc\x00def")
	v := New(Options{})
	s := v.View(buf)
	require.Equal(t, "abc", s)
	buf[0] = 'z'
	assert.Equal(t, "abc", s)
}

func TestViewerLimit(t *testing.T) {
	buf := []byte("abcdef")
	assert.Equal(t, "abc", New(Options{Limit: 3}).View(buf))
	assert.Equal(t, "abcdef", New(Options{UnsafeStrings: true, Limit: 99}).View(buf))
}

func TestBytes(t *testing.T) {
	assert.Nil(t, Bytes(""))
	b := Bytes("hi")
	require.Equal(t, []byte("hi"), b)
	n, err := safestring.Length(b, len(b))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func BenchmarkView(b *testing.B) {
	buf := append([]byte("a reasonably long terminated string"), 0)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = View(buf)
	}
}
