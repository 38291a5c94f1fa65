package config_test

import (
	"testing"

	"github.com/hashgraph/solo-sub009/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackedViewRecordsOnlyActualReads(t *testing.T) {
	s := config.NewMapSource("s", 1, map[string]string{
		"deployment": "mydeploy",
		"namespace":  "solo",
		"force":      "true",
	})
	view := config.NewLayeredView(s)
	tracked := config.NewTrackedView(view, "deployment", "namespace", "force")

	val, ok := tracked.AsString("deployment")
	require.True(t, ok)
	assert.Equal(t, "mydeploy", val)

	_, _ = tracked.AsBool("force")

	unused := tracked.UnusedFlags()
	require.Len(t, unused, 1)
	assert.Equal(t, "namespace", unused[0])
}

func TestTrackedViewAllUsedWhenEveryDeclaredKeyIsRead(t *testing.T) {
	s := config.NewMapSource("s", 1, map[string]string{"a": "1", "b": "2"})
	view := config.NewLayeredView(s)
	tracked := config.NewTrackedView(view, "a", "b")

	_, _ = tracked.AsString("a")
	_, _ = tracked.AsString("b")

	assert.Empty(t, tracked.UnusedFlags())
}
