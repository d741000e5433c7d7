package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilldb/quill/internal/document"
)

// buildRef appends the given keyed leaves to a fresh object child of a new
// document, preserving order, and returns the object element.
func buildRef(t *testing.T, fields ...[2]any) document.Element {
	t.Helper()
	doc := document.New()
	obj, err := doc.Root().AppendObject("link")
	require.NoError(t, err)
	for _, f := range fields {
		_, err := obj.AppendValue(f[0].(string), document.MustValue(f[1]))
		require.NoError(t, err)
	}
	return obj
}

func TestCheckStorableValidRef(t *testing.T) {
	obj := buildRef(t,
		[2]any{"$ref", "users"},
		[2]any{"$id", int64(42)},
		[2]any{"$db", "accounts"},
	)
	assert.NoError(t, CheckStorable(obj, true, true))
}

func TestCheckStorableOrphanedRef(t *testing.T) {
	obj := buildRef(t, [2]any{"$ref", "users"})
	err := CheckStorable(obj, true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'$ref' must be followed by an '$id'")
}

func TestCheckStorableOrphanedID(t *testing.T) {
	obj := buildRef(t, [2]any{"$id", int64(42)})
	err := CheckStorable(obj, true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'$id' must be preceded by a '$ref'")
}

func TestCheckStorableRefMustBeString(t *testing.T) {
	obj := buildRef(t,
		[2]any{"$ref", int64(1)},
		[2]any{"$id", int64(42)},
	)
	err := CheckStorable(obj, true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'$ref' must be a string")
}

func TestCheckStorableDollarRejectedWithoutRefs(t *testing.T) {
	obj := buildRef(t,
		[2]any{"$ref", "users"},
		[2]any{"$id", int64(42)},
	)
	err := CheckStorable(obj.FirstChild(), false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not start with '$'")
}

func TestCheckStorableUnknownDollarField(t *testing.T) {
	obj := buildRef(t, [2]any{"$weird", 1})
	err := CheckStorable(obj, true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not start with '$'")
}

func TestCheckStorablePlainFields(t *testing.T) {
	doc, err := document.FromJSON([]byte(`{"a":{"b":[1,2]},"c":"x"}`))
	require.NoError(t, err)
	assert.NoError(t, CheckStorable(doc.Root(), true, true))
}

func TestCheckStorableDeadHandleIsFine(t *testing.T) {
	assert.NoError(t, CheckStorable(document.Element{}, true, true))
}
