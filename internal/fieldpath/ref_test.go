package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		parts []string
	}{
		{input: "a", parts: []string{"a"}},
		{input: "a.b.c", parts: []string{"a", "b", "c"}},
		{input: "a.2.c", parts: []string{"a", "2", "c"}},
		{input: "a.$.c", parts: []string{"a", "$", "c"}},
	}
	for _, test := range tests {
		ref, err := Parse(test.input)
		require.NoError(t, err)
		assert.Equal(t, len(test.parts), ref.NumParts())
		for i, p := range test.parts {
			assert.Equal(t, p, ref.Part(i))
		}
		assert.Equal(t, test.input, ref.Dotted())
		assert.Equal(t, test.parts[0], ref.Root())
	}

	_, err := Parse("")
	require.ErrorIs(t, err, ErrEmptyPath)
}

func TestSetPartAndClone(t *testing.T) {
	ref, err := Parse("a.$.c")
	require.NoError(t, err)

	bound := ref.Clone()
	bound.SetPart(1, "3")

	assert.Equal(t, "a.3.c", bound.Dotted())
	assert.Equal(t, "a.$.c", ref.Dotted(), "binding a clone must not touch the original")
}

func TestIsPrefixOf(t *testing.T) {
	mustParse := func(s string) *Ref {
		ref, err := Parse(s)
		require.NoError(t, err)
		return ref
	}

	assert.True(t, mustParse("a").IsPrefixOf(mustParse("a.b")))
	assert.True(t, mustParse("a.b").IsPrefixOf(mustParse("a.b")))
	assert.False(t, mustParse("a.b").IsPrefixOf(mustParse("a")))
	assert.False(t, mustParse("a.b").IsPrefixOf(mustParse("a.c")))
	assert.False(t, mustParse("b").IsPrefixOf(mustParse("a.b")))

	// A placeholder could bind to any index, so it overlaps every concrete
	// part in its position.
	assert.True(t, mustParse("a.$.c").IsPrefixOf(mustParse("a.0.c")))
	assert.True(t, mustParse("a.0.c").IsPrefixOf(mustParse("a.$.c")))
	assert.True(t, mustParse("a.$").IsPrefixOf(mustParse("a.0.c")))
	assert.False(t, mustParse("a.$.c").IsPrefixOf(mustParse("b.0.c")))
	assert.False(t, mustParse("a.$.c").IsPrefixOf(mustParse("a.0.d")))
}

func TestCheckUpdatable(t *testing.T) {
	tests := []struct {
		path   string
		errStr string
	}{
		{path: "a.b.c"},
		{path: "a.$.c"},
		{path: "link.$ref"},
		{path: "link.$id"},
		{path: "a.b.", errStr: "contains an empty part"},
		{path: "a..c", errStr: "contains an empty part"},
		{path: "$set.a", errStr: "reserved part"},
		{path: "a.$foo", errStr: "reserved part"},
	}
	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			ref, err := Parse(test.path)
			require.NoError(t, err)

			err = CheckUpdatable(ref)
			if test.errStr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.errStr)
			}
		})
	}
}

func TestFindPlaceholder(t *testing.T) {
	tests := []struct {
		path  string
		pos   int
		count int
	}{
		{path: "a.b.c", pos: -1, count: 0},
		{path: "a.$.c", pos: 1, count: 1},
		{path: "$.b", pos: 0, count: 1},
		{path: "a.$.b.$", pos: 1, count: 2},
	}
	for _, test := range tests {
		ref, err := Parse(test.path)
		require.NoError(t, err)

		pos, count := FindPlaceholder(ref)
		assert.Equal(t, test.pos, pos, test.path)
		assert.Equal(t, test.count, count, test.path)
	}
}
