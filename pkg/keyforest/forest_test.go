package keyforest_test

import (
	"testing"

	"github.com/hashgraph/solo-sub009/pkg/keyforest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForestProjection(t *testing.T) {
	flat := map[string]string{
		"a.b.0": "x",
		"a.b.1": "y",
		"a.c":   "z",
	}

	f := keyforest.From(flat)
	obj := f.ToObject()

	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": []any{"x", "y"},
			"c": "z",
		},
	}, obj)
}

func TestForestRoundTrip(t *testing.T) {
	original := map[string]any{
		"metadata": map[string]any{
			"lastupdatedat": "2026-01-01T00:00:00Z",
			"lastupdatedby": map[string]any{
				"name":     "op",
				"hostname": "box",
			},
		},
		"clusters": []any{"c1", "c2"},
	}

	flat := keyforest.FlattenObject(original)
	roundTripped := keyforest.From(flat).ToObject()

	require.Equal(t, original, roundTripped)
}

func TestKeyNormalizationRoundTrip(t *testing.T) {
	segments := []string{"a", "b", "0", "nested-key"}
	joined := keyforest.Join(segments)
	assert.Equal(t, segments, keyforest.Split(joined))
}

func TestCoercion(t *testing.T) {
	tru := "true"
	fal := "false"
	nul := "null"
	num := "42.5"
	str := "hello"

	assert.Equal(t, true, keyforest.Coerce(&tru))
	assert.Equal(t, false, keyforest.Coerce(&fal))
	assert.Nil(t, keyforest.Coerce(&nul))
	assert.Equal(t, 42.5, keyforest.Coerce(&num))
	assert.Equal(t, "hello", keyforest.Coerce(&str))
	assert.Nil(t, keyforest.Coerce(nil))
}

func TestValueForAndNodeFor(t *testing.T) {
	f := keyforest.From(map[string]string{"a.b": "1"})
	v, ok := keyforest.ValueFor(f, "a.b")
	require.True(t, ok)
	assert.Equal(t, float64(1), v)

	_, ok = keyforest.ValueFor(f, "a.missing")
	assert.False(t, ok)

	n, ok := f.NodeFor("a")
	require.True(t, ok)
	assert.Equal(t, keyforest.KindInternal, n.Kind)
}

func TestIsArraySegment(t *testing.T) {
	assert.True(t, keyforest.IsArraySegment("0"))
	assert.True(t, keyforest.IsArraySegment("123"))
	assert.False(t, keyforest.IsArraySegment("0a"))
	assert.False(t, keyforest.IsArraySegment(""))
}
