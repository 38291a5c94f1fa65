package storage

import (
	"context"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"sigs.k8s.io/yaml"
)

// ObjectBackend wraps any byte Backend with typed readObject/writeObject
// methods that (de)serialize through sigs.k8s.io/yaml, the same library
// the teacher's marshal() helper uses. Map keys are written in a stable
// (alphabetical, via the JSON-then-YAML path) order.
type ObjectBackend struct {
	Backend
}

// NewObjectBackend wraps backend with YAML object (de)serialization.
func NewObjectBackend(backend Backend) *ObjectBackend {
	return &ObjectBackend{Backend: backend}
}

// ReadObject reads key and unmarshals it into out (a pointer).
func (o *ObjectBackend) ReadObject(ctx context.Context, key string, out any) error {
	data, err := o.ReadBytes(ctx, key)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return soloerr.StorageBackend(o.Name(), err)
	}
	return nil
}

// WriteObject marshals in to YAML and writes it under key.
func (o *ObjectBackend) WriteObject(ctx context.Context, key string, in any) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return soloerr.StorageBackend(o.Name(), err)
	}
	return o.WriteBytes(ctx, key, data)
}

// Exists reports whether key is present, translating ResourceNotFound into
// a plain boolean per spec §7's "recovered locally only where the
// contract allows" policy.
func Exists(ctx context.Context, b Backend, key string) (bool, error) {
	_, err := b.ReadBytes(ctx, key)
	if err == nil {
		return true, nil
	}
	if soloerr.Is(err, soloerr.KindResourceNotFound) {
		return false, nil
	}
	return false, err
}
