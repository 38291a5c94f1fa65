package storage

import (
	"context"
	"os"
	"strings"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// EnvBackend reads the process environment, optionally filtered to keys
// carrying a given prefix (the prefix is stripped on presentation). Writes
// and deletes are unsupported.
type EnvBackend struct {
	prefix string
	lookup func() []string // overridable for tests; defaults to os.Environ
}

// NewEnvBackend constructs an EnvBackend. An empty prefix matches every
// environment variable.
func NewEnvBackend(prefix string) *EnvBackend {
	return &EnvBackend{prefix: prefix, lookup: os.Environ}
}

func (b *EnvBackend) Name() string { return "environment" }

func (b *EnvBackend) Capabilities() CapabilitySet {
	return CapabilitySet(CapList | CapReadBytes)
}

func (b *EnvBackend) entries() map[string]string {
	out := map[string]string{}
	for _, kv := range b.lookup() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, val := parts[0], parts[1]
		if b.prefix != "" {
			if !strings.HasPrefix(key, b.prefix) {
				continue
			}
			key = strings.TrimPrefix(key, b.prefix)
		}
		out[key] = val
	}
	return out
}

func (b *EnvBackend) List(ctx context.Context) ([]string, error) {
	entries := b.entries()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	return keys, nil
}

func (b *EnvBackend) ReadBytes(ctx context.Context, key string) ([]byte, error) {
	entries := b.entries()
	val, ok := entries[key]
	if !ok {
		return nil, soloerr.ResourceNotFound("environment", "", key)
	}
	return []byte(val), nil
}

func (b *EnvBackend) WriteBytes(ctx context.Context, key string, data []byte) error {
	return requireCapability(b, CapWriteBytes, "WriteBytes")
}

func (b *EnvBackend) Delete(ctx context.Context, key string) error {
	return requireCapability(b, CapDelete, "Delete")
}
