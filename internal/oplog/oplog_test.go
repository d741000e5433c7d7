package oplog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderEmpty(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, 0, b.Len())

	_, ok := b.Entry()
	assert.False(t, ok, "an empty cycle must not produce a log entry")
}

func TestBuilderEntry(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddUnset("a.b.1"))
	require.NoError(t, b.AddUnset("x"))
	require.Error(t, b.AddUnset(""))

	e, ok := b.Entry()
	require.True(t, ok)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, []string{"a.b.1", "x"}, e.Unsets)
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()

	b := NewBuilder()
	require.NoError(t, b.AddUnset("a"))
	e, ok := b.Entry()
	require.True(t, ok)
	require.NoError(t, s.Append(context.Background(), e))

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, e.ID, entries[0].ID)
}

func TestFileSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oplog.jsonl")

	s, err := NewFileSink(path)
	require.NoError(t, err)

	for _, unset := range []string{"a.b.1", "x"} {
		b := NewBuilder()
		require.NoError(t, b.AddUnset(unset))
		e, ok := b.Entry()
		require.True(t, ok)
		require.NoError(t, s.Append(context.Background(), e))
	}
	require.NoError(t, s.Sync())
	require.NoError(t, s.Close())

	entries, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"a.b.1"}, entries[0].Unsets)
	assert.Equal(t, []string{"x"}, entries[1].Unsets)
}

func TestFileSinkAppendsAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oplog.jsonl")

	for i := 0; i < 2; i++ {
		s, err := NewFileSink(path)
		require.NoError(t, err)

		b := NewBuilder()
		require.NoError(t, b.AddUnset("f"))
		e, ok := b.Entry()
		require.True(t, ok)
		require.NoError(t, s.Append(context.Background(), e))
		require.NoError(t, s.Close())
	}

	entries, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
