package update

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilldb/quill/internal/document"
	"github.com/quilldb/quill/internal/oplog"
)

func TestDriverAddRejectsOverlaps(t *testing.T) {
	d := NewDriver()
	require.NoError(t, d.Add("a.b", document.MustValue(1)))
	require.NoError(t, d.Add("a.c", document.MustValue(2)))

	err := d.Add("a.b.c", document.MustValue(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicts with path 'a.b'")

	err = d.Add("a", document.MustValue(4))
	require.Error(t, err)

	err = d.Add("a.b", document.MustValue(5))
	require.Error(t, err)

	assert.Equal(t, 2, d.Len())
}

func TestDriverAddRejectsPositionalAliases(t *testing.T) {
	// A placeholder path and a concrete-index path can collapse to the same
	// leaf once the placeholder is bound, so the pair must be rejected up
	// front rather than surface as a stale handle mid-apply.
	d := NewDriver()
	require.NoError(t, d.Add("a.$.c", document.MustValue(5.0)))

	err := d.Add("a.0.c", document.MustValue(5.0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicts with path 'a.$.c'")
	assert.Equal(t, 1, d.Len())

	d = NewDriver()
	require.NoError(t, d.Add("a.0.c", document.MustValue(5.0)))
	require.Error(t, d.Add("a.$.c", document.MustValue(5.0)))
	require.Error(t, d.Add("a.$", document.MustValue(5.0)))

	// Paths a binding can never make overlap stay accepted.
	require.NoError(t, d.Add("b.$.c", document.MustValue(5.0)))
	require.NoError(t, d.Add("a.1.d", document.MustValue(5.0)))
}

func TestDriverAddRejectsBadPaths(t *testing.T) {
	d := NewDriver()
	var cfgErr *ConfigError
	require.ErrorAs(t, d.Add("", document.MustValue(1)), &cfgErr)
	require.ErrorAs(t, d.Add("$bad", document.MustValue(1)), &cfgErr)
	assert.Equal(t, 0, d.Len())
}

func TestDriverExecute(t *testing.T) {
	for name, walker := range map[string]Walker{
		"exact":  ExactWalker{},
		"shared": SharedTreeWalker{},
	} {
		t.Run(name, func(t *testing.T) {
			d := NewDriver(WithWalker(walker))
			require.NoError(t, d.Add("a.b.1", document.MustValue(2.0)))
			require.NoError(t, d.Add("x", document.MustValue(1.0)))
			require.NoError(t, d.Add("gone", document.MustValue("nope")))

			doc := mustDoc(t, `{"a":{"b":[1,2,3]},"x":1}`)
			sink := oplog.NewMemorySink()

			out, err := d.Execute(context.Background(), doc, "", sink)
			require.NoError(t, err)
			assert.Equal(t, []ModifyResult{ModifyNormal, ModifyNormal, ModifyNoOp}, out.Results)
			assert.Equal(t, 2, out.Applied())

			require.NotNil(t, out.Entry)
			assert.ElementsMatch(t, []string{"a.b.1", "x"}, out.Entry.Unsets)
			assert.NotEmpty(t, out.Entry.ID)
			assert.False(t, out.Entry.Timestamp.IsZero())

			entries := sink.Entries()
			require.Len(t, entries, 1)
			assert.Equal(t, *out.Entry, entries[0])

			assert.True(t, doc.Equal(mustDoc(t, `{"a":{"b":[1,null,3]}}`)))
		})
	}
}

func TestDriverExecuteAllNoOp(t *testing.T) {
	d := NewDriver()
	require.NoError(t, d.Add("missing", document.MustValue(1.0)))
	require.NoError(t, d.Add("x", document.MustValue("mismatch")))

	doc := mustDoc(t, `{"x":1}`)
	sink := oplog.NewMemorySink()

	out, err := d.Execute(context.Background(), doc, "", sink)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Applied())
	assert.Nil(t, out.Entry, "a cycle that mutated nothing logs nothing")
	assert.Empty(t, sink.Entries())
	assert.True(t, doc.Equal(mustDoc(t, `{"x":1}`)))
}

func TestDriverExecuteValidationAborts(t *testing.T) {
	for name, walker := range map[string]Walker{
		"exact":  ExactWalker{},
		"shared": SharedTreeWalker{},
	} {
		t.Run(name, func(t *testing.T) {
			doc := document.New()
			link, err := doc.Root().AppendObject("link")
			require.NoError(t, err)
			_, err = link.AppendValue("$ref", document.MustValue("users"))
			require.NoError(t, err)
			_, err = link.AppendValue("$id", document.MustValue(int64(42)))
			require.NoError(t, err)

			d := NewDriver(WithWalker(walker))
			require.NoError(t, d.Add("link.$ref", document.MustValue("users")))

			sink := oplog.NewMemorySink()
			_, err = d.Execute(context.Background(), doc, "", sink)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, "link.$ref", valErr.Path)
			assert.Empty(t, sink.Entries(), "nothing reaches the sink on error")
		})
	}
}

func TestDriverExecuteNilSink(t *testing.T) {
	d := NewDriver()
	require.NoError(t, d.Add("x", document.MustValue(1.0)))

	doc := mustDoc(t, `{"x":1}`)
	out, err := d.Execute(context.Background(), doc, "", nil)
	require.NoError(t, err)
	require.NotNil(t, out.Entry)
	assert.Equal(t, []string{"x"}, out.Entry.Unsets)
}
