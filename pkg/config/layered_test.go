package config_test

import (
	"context"
	"testing"

	"github.com/hashgraph/solo-sub009/pkg/config"
	"github.com/hashgraph/solo-sub009/pkg/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayeredViewHighestOrdinalWins(t *testing.T) {
	s1 := config.NewMapSource("s1", 1, map[string]string{"k": "a"})
	s2 := config.NewMapSource("s2", 2, map[string]string{"k": "b"})
	s3 := config.NewMapSource("s3", 3, map[string]string{})

	view := config.NewLayeredView(s1, s2, s3)
	val, ok := view.AsString("k")
	require.True(t, ok)
	assert.Equal(t, "b", val)
}

func TestLayeredViewIgnoresOriginalConstructionOrder(t *testing.T) {
	// Sources passed out of ordinal order must still resolve by ordinal,
	// not by argument position.
	high := config.NewMapSource("high", 5, map[string]string{"k": "high-wins"})
	low := config.NewMapSource("low", 1, map[string]string{"k": "low-loses"})

	view := config.NewLayeredView(high, low)
	val, ok := view.AsString("k")
	require.True(t, ok)
	assert.Equal(t, "high-wins", val)
}

func TestLayeredViewTypedAccessors(t *testing.T) {
	s := config.NewMapSource("s", 1, map[string]string{
		"enabled":    "true",
		"disabled":   "false",
		"count":      "3",
		"tags.0":     "x",
		"tags.1":     "y",
		"name":       "solo",
	})
	view := config.NewLayeredView(s)

	b, ok := view.AsBool("enabled")
	require.True(t, ok)
	assert.True(t, b)

	b, ok = view.AsBool("disabled")
	require.True(t, ok)
	assert.False(t, b)

	n, ok := view.AsNumber("count")
	require.True(t, ok)
	assert.Equal(t, float64(3), n)

	tags, ok := view.AsStringList("tags")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, tags)

	str, ok := view.AsString("name")
	require.True(t, ok)
	assert.Equal(t, "solo", str)
}

func TestLayeredViewMissingKey(t *testing.T) {
	view := config.NewLayeredView(config.NewMapSource("s", 1, map[string]string{}))
	_, ok := view.AsString("absent")
	assert.False(t, ok)
}

func TestLayeredViewRefreshPicksUpSourceWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	backend := storage.NewObjectBackend(storage.NewFileBackend(fs, "config"))
	objSource := config.NewObjectBackendSource("local", 10, backend, "local-config.yaml")

	view := config.NewLayeredView(objSource)
	_, ok := view.AsString("userEmailAddress")
	assert.False(t, ok, "backing document does not exist yet")

	require.NoError(t, objSource.WriteObject(context.Background(), "local-config.yaml", map[string]any{
		"userEmailAddress": "a@example.com",
	}))
	require.NoError(t, view.Refresh(context.Background()))

	val, ok := view.AsString("userEmailAddress")
	require.True(t, ok)
	assert.Equal(t, "a@example.com", val)
}

func TestLayeredViewAsObject(t *testing.T) {
	type deployment struct {
		Name      string `json:"name"`
		Namespace string `json:"namespace"`
	}
	s := config.NewMapSource("s", 1, map[string]string{
		"deployment.name":      "mydeploy",
		"deployment.namespace": "solo",
	})
	view := config.NewLayeredView(s)

	var d deployment
	require.NoError(t, view.AsObject("deployment", &d))
	assert.Equal(t, "mydeploy", d.Name)
	assert.Equal(t, "solo", d.Namespace)
}
