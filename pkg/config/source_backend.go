package config

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/keyforest"
	"github.com/hashgraph/solo-sub009/pkg/storage"
)

// ObjectBackendSource is a Configuration Source backed by a single object
// (e.g. local-config.yaml) read through a storage.ObjectBackend. Refresh
// re-reads the object and re-flattens it; WriteObject persists a new
// object and refreshes the cached view in one step.
type ObjectBackendSource struct {
	name    string
	ordinal int
	backend *storage.ObjectBackend
	key     string

	mu         sync.RWMutex
	properties map[string]string
}

// NewObjectBackendSource constructs a source over backend, keyed at key
// (the storage key/filename holding the serialized object).
func NewObjectBackendSource(name string, ordinal int, backend *storage.ObjectBackend, key string) *ObjectBackendSource {
	return &ObjectBackendSource{name: name, ordinal: ordinal, backend: backend, key: key, properties: map[string]string{}}
}

func (s *ObjectBackendSource) Name() string    { return s.name }
func (s *ObjectBackendSource) Ordinal() int     { return s.ordinal }

func (s *ObjectBackendSource) Properties() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.properties))
	for k, v := range s.properties {
		out[k] = v
	}
	return out
}

// Refresh re-reads the backing object and rebuilds the flattened property
// map. If the underlying key does not exist yet, Refresh leaves the
// current (possibly empty) properties untouched rather than failing —
// callers create the backing document via an explicit write first.
func (s *ObjectBackendSource) Refresh(ctx context.Context) error {
	exists, err := storage.Exists(ctx, s.backend.Backend, s.key)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	var obj map[string]any
	if err := s.backend.ReadObject(ctx, s.key, &obj); err != nil {
		return err
	}

	flat := keyforest.FlattenObject(obj)
	s.mu.Lock()
	s.properties = flat
	s.mu.Unlock()
	return nil
}

// WriteObject persists obj under this source's key and refreshes the
// cached flat view.
func (s *ObjectBackendSource) WriteObject(ctx context.Context, key string, obj any) error {
	if err := s.backend.WriteObject(ctx, s.key, obj); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Watch starts an fsnotify watch on this source's backing file and calls
// Refresh whenever it is written out-of-band, so a file-backed
// Configuration Source stays current without the caller polling (spec
// §4.D "refresh()"). Only meaningful when the source sits over a
// *storage.FileBackend writing to a real filesystem; returns
// soloerr.KindUnsupportedOperation otherwise. The returned stop function
// closes the watcher; callers should defer it.
func (s *ObjectBackendSource) Watch(ctx context.Context) (stop func() error, err error) {
	fileBackend, ok := s.backend.Backend.(*storage.FileBackend)
	if !ok {
		return nil, soloerr.UnsupportedOperation("Watch", s.backend.Backend.Name())
	}
	path, err := fileBackend.Path(s.key)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, soloerr.StorageBackend(s.name, err)
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return nil, soloerr.StorageBackend(s.name, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.Refresh(ctx); err != nil {
					klog.V(1).Infof("config source %q: refresh after change to %q: %v", s.name, path, err)
				}
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				klog.V(1).Infof("config source %q: watch error on %q: %v", s.name, path, watchErr)
			case <-ctx.Done():
				_ = watcher.Close()
				return
			}
		}
	}()

	return watcher.Close, nil
}

// EnvSource adapts a storage.EnvBackend into a Configuration Source.
type EnvSource struct {
	name    string
	ordinal int
	backend *storage.EnvBackend
}

// NewEnvSource constructs a low-precedence Configuration Source over the
// process environment.
func NewEnvSource(name string, ordinal int, backend *storage.EnvBackend) *EnvSource {
	return &EnvSource{name: name, ordinal: ordinal, backend: backend}
}

func (s *EnvSource) Name() string    { return s.name }
func (s *EnvSource) Ordinal() int     { return s.ordinal }

func (s *EnvSource) Properties() map[string]string {
	ctx := context.Background()
	keys, err := s.backend.List(ctx)
	if err != nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, err := s.backend.ReadBytes(ctx, k)
		if err != nil {
			continue
		}
		out[keyforest.NormalizeFrom(k, "_")] = string(v)
	}
	return out
}

// Refresh is a no-op; the process environment is read live on every
// Properties() call.
func (s *EnvSource) Refresh(ctx context.Context) error { return nil }
