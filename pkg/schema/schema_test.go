package schema_test

import (
	"testing"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMigrationsDetectsGap(t *testing.T) {
	s := &schema.Schema{
		Name:    "gappy",
		Version: 3,
		Migrations: []schema.Migration{
			{FromVersion: 0, ToVersionExclusive: 1, ResultVersion: 1, Apply: identity},
			{FromVersion: 2, ToVersionExclusive: 3, ResultVersion: 3, Apply: identity},
		},
	}

	err := schema.ValidateMigrations(s)
	require.Error(t, err)
	assert.True(t, soloerr.Is(err, soloerr.KindSchemaValidation))
	assert.Contains(t, err.Error(), "No migration found for version '1'")
}

func TestValidateMigrationsDetectsDuplicateResultVersion(t *testing.T) {
	s := &schema.Schema{
		Name:    "dup",
		Version: 2,
		Migrations: []schema.Migration{
			{FromVersion: 0, ToVersionExclusive: 2, ResultVersion: 1, Apply: identity},
			{FromVersion: 0, ToVersionExclusive: 2, ResultVersion: 1, Apply: identity},
		},
	}
	err := schema.ValidateMigrations(s)
	require.Error(t, err)
	assert.True(t, soloerr.Is(err, soloerr.KindSchemaValidation))
}

func TestValidateMigrationsAcceptsUnbrokenSequence(t *testing.T) {
	s := validTwoStepSchema()
	require.NoError(t, schema.ValidateMigrations(s))
}

func identity(data map[string]any) (map[string]any, error) { return data, nil }

func validTwoStepSchema() *schema.Schema {
	return &schema.Schema{
		Name:    "two-step",
		Version: 2,
		Migrations: []schema.Migration{
			{
				FromVersion: 0, ToVersionExclusive: 1, ResultVersion: 1,
				Apply: func(data map[string]any) (map[string]any, error) {
					data["step1"] = true
					return data, nil
				},
			},
			{
				FromVersion: 1, ToVersionExclusive: 2, ResultVersion: 2,
				Apply: func(data map[string]any) (map[string]any, error) {
					data["step2"] = true
					return data, nil
				},
			},
		},
	}
}

type targetModel struct {
	SchemaVersion int  `json:"schemaVersion"`
	Step1         bool `json:"step1"`
	Step2         bool `json:"step2"`
}

func TestTransformMigratesThenInstantiates(t *testing.T) {
	s := validTwoStepSchema()
	require.NoError(t, schema.ValidateMigrations(s))

	var out targetModel
	require.NoError(t, schema.Transform(s, map[string]any{}, &out))

	assert.Equal(t, 2, out.SchemaVersion)
	assert.True(t, out.Step1)
	assert.True(t, out.Step2)
}

func TestTransformNeverPartial(t *testing.T) {
	s := &schema.Schema{
		Name:    "stuck",
		Version: 5,
		Migrations: []schema.Migration{
			{FromVersion: 0, ToVersionExclusive: 1, ResultVersion: 1, Apply: identity},
		},
	}

	_, err := schema.Migrate(s, map[string]any{})
	require.Error(t, err)
	assert.True(t, soloerr.Is(err, soloerr.KindInvalidSchemaVersion))
}

func TestMigrationsDoNotMutateInput(t *testing.T) {
	s := &schema.Schema{
		Name:    "mutator-check",
		Version: 1,
		Migrations: []schema.Migration{
			{
				FromVersion: 0, ToVersionExclusive: 1, ResultVersion: 1,
				Apply: func(data map[string]any) (map[string]any, error) {
					data["added"] = "x"
					return data, nil
				},
			},
		},
	}

	input := map[string]any{"untouched": "y"}
	_, err := schema.Migrate(s, input)
	require.NoError(t, err)

	_, hasAdded := input["added"]
	assert.False(t, hasAdded, "Migrate must operate on a deep clone, not the caller's map")
}
