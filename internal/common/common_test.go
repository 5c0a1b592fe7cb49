package common

import (
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	assert.Equal(t, 3, Scan([]byte("abc\x00d"), 10))
	assert.Equal(t, 2, Scan([]byte("abc\x00d"), 2))
	assert.Equal(t, 3, Scan([]byte("abc"), 10))
	assert.Equal(t, 0, Scan([]byte("abc"), 0))
	assert.Equal(t, 0, Scan([]byte("abc"), -4))
	assert.Equal(t, 0, Scan(nil, 5))
}

func TestScanNeverLooksPastLimit(t *testing.T) {
	// the terminator sits exactly at the limit and must not be seen
	b := []byte("abcd\x00")
	require.Equal(t, 4, Scan(b, 4))
	require.Equal(t, 4, Scan(b, 5))
}

func TestWindow(t *testing.T) {
	b := []byte("abcdef")
	assert.Equal(t, []byte("abc"), Window(b, 3))
	assert.Equal(t, b, Window(b, 100))
	assert.Empty(t, Window(b, -1))
}

func TestAt(t *testing.T) {
	b := []byte("ab")
	assert.Equal(t, byte('b'), At(b, 1))
	assert.Equal(t, Terminator, At(b, 2))
	assert.Equal(t, Terminator, At(nil, 0))
}

func TestFill(t *testing.T) {
	b := []byte("abc")
	Fill(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
}

func TestFixedRoundTrip(t *testing.T) {
	type fixed struct {
		B   bool
		I8  int8
		U8  uint8
		I16 int16
		U16 uint16
		I32 int32
		U32 uint32
		I64 int64
		U64 uint64
		F32 float32
		F64 float64
	}
	condition := func(in fixed) bool {
		var out fixed
		src := reflect.ValueOf(in)
		dst := reflect.ValueOf(&out).Elem()
		for i := 0; i < src.NumField(); i++ {
			k := src.Field(i).Kind()
			require.True(t, IsFixedKind(k))
			b := make([]byte, FixedSize(k))
			PutFixed(b, src.Field(i))
			SetFixed(dst.Field(i), b, k)
		}
		return assert.ObjectsAreEqual(in, out)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestFixedSizeUnknown(t *testing.T) {
	assert.False(t, IsFixedKind(reflect.String))
	assert.Equal(t, -1, FixedSize(reflect.String))
}
