package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/pathsafe"
	"github.com/spf13/afero"
)

// FileBackend operates on files directly within a fixed base directory,
// rejecting any key that would traverse outside it (spec §4.K). List
// returns file entries only, non-recursive.
type FileBackend struct {
	fs      afero.Fs
	baseDir string
}

// NewFileBackend constructs a FileBackend rooted at baseDir, using fs for
// all I/O (production wiring passes afero.NewOsFs(); tests pass
// afero.NewMemMapFs()).
func NewFileBackend(fs afero.Fs, baseDir string) *FileBackend {
	return &FileBackend{fs: fs, baseDir: baseDir}
}

func (b *FileBackend) Name() string { return "file" }

func (b *FileBackend) Capabilities() CapabilitySet {
	return CapabilitySet(CapList | CapReadBytes | CapWriteBytes | CapDelete)
}

func (b *FileBackend) resolve(key string) (string, error) {
	// afero's MemMapFs has no real filesystem to EvalSymlinks against, so
	// the traversal guard is only meaningful for the OS filesystem; callers
	// using an in-memory fs in tests get a lexical join-and-containment check.
	if _, ok := b.fs.(*afero.MemMapFs); ok {
		joined := filepath.Join(b.baseDir, key)
		if rel, err := filepath.Rel(filepath.Clean(b.baseDir), joined); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", soloerr.PathTraversalDetected(b.baseDir, joined)
		}
		return joined, nil
	}
	return pathsafe.SafeJoinWithBaseDirConfinement(b.baseDir, key)
}

// Path returns the real on-disk location key would resolve to, for
// callers (pkg/config's fsnotify watch) that need a path to hand to an OS
// file-watching API rather than going through the Backend interface.
func (b *FileBackend) Path(key string) (string, error) {
	return b.resolve(key)
}

func (b *FileBackend) List(ctx context.Context) ([]string, error) {
	if err := requireCapability(b, CapList, "List"); err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(b.fs, b.baseDir)
	if err != nil {
		return nil, soloerr.StorageBackend(b.Name(), err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (b *FileBackend) ReadBytes(ctx context.Context, key string) ([]byte, error) {
	if err := requireCapability(b, CapReadBytes, "ReadBytes"); err != nil {
		return nil, err
	}
	path, err := b.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(b.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, soloerr.ResourceNotFound("file", b.baseDir, key)
		}
		return nil, soloerr.StorageBackend(b.Name(), err)
	}
	if len(data) == 0 {
		return nil, soloerr.StorageBackend(b.Name(), errEmptyContent(key))
	}
	return data, nil
}

func (b *FileBackend) WriteBytes(ctx context.Context, key string, data []byte) error {
	if err := requireCapability(b, CapWriteBytes, "WriteBytes"); err != nil {
		return err
	}
	if err := b.fs.MkdirAll(b.baseDir, 0o755); err != nil {
		return soloerr.StorageBackend(b.Name(), err)
	}
	path, err := joinForWrite(b, key)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(b.fs, path, data, 0o644); err != nil {
		return soloerr.StorageBackend(b.Name(), err)
	}
	return nil
}

// joinForWrite joins without requiring the target to pre-exist (resolve()
// requires the resolved path to exist, which a not-yet-written file won't).
func joinForWrite(b *FileBackend, key string) (string, error) {
	path := filepath.Join(b.baseDir, key)
	if rel, err := filepath.Rel(filepath.Clean(b.baseDir), path); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", soloerr.PathTraversalDetected(b.baseDir, path)
	}
	return path, nil
}

func (b *FileBackend) Delete(ctx context.Context, key string) error {
	if err := requireCapability(b, CapDelete, "Delete"); err != nil {
		return err
	}
	path, err := b.resolve(key)
	if err != nil {
		return err
	}
	if err := b.fs.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return soloerr.StorageBackend(b.Name(), err)
	}
	return nil
}

type emptyContentError struct{ key string }

func (e emptyContentError) Error() string { return "empty content for key " + e.key }

func errEmptyContent(key string) error { return emptyContentError{key: key} }
