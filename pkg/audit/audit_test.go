package audit

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/safestring"
)

func events(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		out = append(out, ev)
	}
	return out
}

func TestTruncationIsLogged(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf), Options{LogTruncations: true, Component: "names"})

	dst := make([]byte, 4)
	o, err := a.Copy(dst, safestring.Terminate("hello"))
	require.NoError(t, err)
	require.True(t, o.Truncated())

	evs := events(t, &buf)
	require.Len(t, evs, 1)
	assert.Equal(t, "warn", evs[0]["level"])
	assert.Equal(t, "copy", evs[0]["op"])
	assert.Equal(t, "names", evs[0]["component"])
	assert.EqualValues(t, 4, evs[0]["capacity"])
	assert.EqualValues(t, 3, evs[0]["length"])
	assert.Equal(t, Stats{Calls: 1, Truncations: 1}, a.Stats())
}

func TestRejectionIsLogged(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf), DefaultOptions())

	_, err := a.Concat(nil, safestring.Terminate("x"))
	require.ErrorIs(t, err, safestring.ErrNullArgument)
	_, err = a.FormatString(make([]byte, 8), "%d")
	require.ErrorIs(t, err, safestring.ErrFormat)
	_, err = a.Length(nil, 3)
	require.ErrorIs(t, err, safestring.ErrNullArgument)

	evs := events(t, &buf)
	require.Len(t, evs, 3)
	assert.Equal(t, "error", evs[0]["level"])
	assert.Equal(t, "null-argument", evs[0]["kind"])
	assert.Equal(t, "format-error", evs[1]["kind"])
	assert.Equal(t, "length", evs[2]["op"])
	assert.Equal(t, Stats{Calls: 3, Rejections: 3}, a.Stats())
}

func TestCleanCallsAreQuiet(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf), DefaultOptions())

	dst := make([]byte, 32)
	_, err := a.Copy(dst, safestring.Terminate("hello"))
	require.NoError(t, err)
	_, err = a.Concat(dst, safestring.Terminate(" world"))
	require.NoError(t, err)
	_, err = a.Format(dst, []byte("%s!"), "hi")
	require.NoError(t, err)
	n, err := a.Length(dst, len(dst))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	r, err := a.Compare(dst, safestring.Terminate("hi!"), 8)
	require.NoError(t, err)
	require.Zero(t, r)

	assert.Empty(t, buf.String())
	assert.Equal(t, Stats{Calls: 5}, a.Stats())
}

func TestSilencedOptionsStillCount(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf), Options{})
	_, _ = a.Copy(make([]byte, 2), safestring.Terminate("abc"))
	_, _ = a.Copy(nil, nil)
	assert.Empty(t, buf.String())
	assert.Equal(t, Stats{Calls: 2, Truncations: 1, Rejections: 1}, a.Stats())
}

func TestConcurrentCounters(t *testing.T) {
	a := New(zerolog.Nop(), DefaultOptions())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dst := make([]byte, 3)
			for j := 0; j < 100; j++ {
				_, _ = a.Copy(dst, safestring.Terminate("abcdef"))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, Stats{Calls: 800, Truncations: 800}, a.Stats())
}
