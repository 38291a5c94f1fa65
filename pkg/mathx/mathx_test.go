package mathx_test

import (
	"math"
	"testing"

	"github.com/hashgraph/solo-sub009/pkg/mathx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumIntsOverflow(t *testing.T) {
	_, err := mathx.SumInts(math.MaxInt, 1)
	require.Error(t, err)
}

func TestSumIntsNormal(t *testing.T) {
	sum, err := mathx.SumInts(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, sum)
}

func TestDivideEvenlyExactSum(t *testing.T) {
	parts, err := mathx.DivideEvenly(10, 3)
	require.NoError(t, err)
	total, err := mathx.SumInts(parts...)
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	assert.Equal(t, []int{4, 3, 3}, parts)
}

func TestDivideEvenlyRejectsZeroParts(t *testing.T) {
	_, err := mathx.DivideEvenly(10, 0)
	require.Error(t, err)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, mathx.Clamp(10, 0, 5))
	assert.Equal(t, 0, mathx.Clamp(-1, 0, 5))
	assert.Equal(t, 3, mathx.Clamp(3, 0, 5))
}
