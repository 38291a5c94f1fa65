package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashgraph/solo-sub009/pkg/config"
	"github.com/hashgraph/solo-sub009/pkg/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectBackendSourceWriteObjectRefreshesProperties(t *testing.T) {
	fs := afero.NewMemMapFs()
	backend := storage.NewObjectBackend(storage.NewFileBackend(fs, "config"))
	source := config.NewObjectBackendSource("local-config", 10, backend, "local-config.yaml")

	require.NoError(t, source.WriteObject(context.Background(), "local-config.yaml", map[string]string{"userEmailAddress": "a@example.com"}))
	assert.Equal(t, "a@example.com", source.Properties()["userEmailAddress"])
}

// TestObjectBackendSourceWatchPicksUpOutOfBandEdits exercises the fsnotify
// wiring (spec §4.D refresh()): a write to the backing file outside of
// WriteObject is still reflected in Properties() once the watcher fires.
// Unlike the package's other tests, this one needs a real filesystem —
// fsnotify has nothing to watch on afero's in-memory fs.
func TestObjectBackendSourceWatchPicksUpOutOfBandEdits(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()
	backend := storage.NewObjectBackend(storage.NewFileBackend(fs, dir))
	source := config.NewObjectBackendSource("local-config", 10, backend, "local-config.yaml")

	require.NoError(t, source.WriteObject(context.Background(), "local-config.yaml", map[string]string{"userEmailAddress": "a@example.com"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop, err := source.Watch(ctx)
	require.NoError(t, err)
	defer stop()

	path := filepath.Join(dir, "local-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("userEmailAddress: b@example.com\n"), 0o644))

	require.Eventually(t, func() bool {
		return source.Properties()["userEmailAddress"] == "b@example.com"
	}, 2*time.Second, 10*time.Millisecond, "Watch did not pick up the out-of-band edit")
}

// TestObjectBackendSourceWatchRejectsNonFileBackend: Watch only makes sense
// over a real filesystem path, so it refuses any other backend.
func TestObjectBackendSourceWatchRejectsNonFileBackend(t *testing.T) {
	backend := storage.NewObjectBackend(storage.NewEnvBackend("SOLO_"))
	source := config.NewObjectBackendSource("env", 0, backend, "irrelevant")

	_, err := source.Watch(context.Background())
	require.Error(t, err)
}
