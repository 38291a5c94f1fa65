package semverx_test

import (
	"testing"

	"github.com/hashgraph/solo-sub009/pkg/semverx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndCompare(t *testing.T) {
	a, err := semverx.Parse("v0.60.0")
	require.NoError(t, err)
	b, err := semverx.Parse("0.61.0")
	require.NoError(t, err)
	assert.True(t, a.LessThan(b))
}

func TestParseInvalid(t *testing.T) {
	_, err := semverx.Parse("not-a-version")
	require.Error(t, err)
}

func TestRangeContains(t *testing.T) {
	r, err := semverx.ParseRange(">= 0.60.0, < 1.0.0")
	require.NoError(t, err)
	v, err := semverx.Parse("0.60.5")
	require.NoError(t, err)
	assert.True(t, r.Contains(v))

	outOfRange, err := semverx.Parse("1.0.0")
	require.NoError(t, err)
	assert.False(t, r.Contains(outOfRange))
}
