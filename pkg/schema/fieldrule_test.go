package schema_test

import (
	"testing"

	"github.com/hashgraph/solo-sub009/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `solo:"required"`
	Count int    `solo:"min=1"`
}

func TestValidateStructRequiredField(t *testing.T) {
	err := schema.ValidateStruct(&sample{Count: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name is required")
}

func TestValidateStructMinViolation(t *testing.T) {
	err := schema.ValidateStruct(&sample{Name: "x", Count: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Count must be >= 1")
}

func TestValidateStructPasses(t *testing.T) {
	err := schema.ValidateStruct(&sample{Name: "x", Count: 1})
	assert.NoError(t, err)
}
