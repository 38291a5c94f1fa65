// Package storage implements Solo's storage backends (spec §4.B): a
// uniform byte/object read-write surface over a local file directory,
// process environment variables, and a cluster config-map, each declaring
// its own capability set. Operations outside a backend's declared
// capability set fail loudly with soloerr.UnsupportedOperation rather than
// silently no-op'ing.
package storage

import (
	"context"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// Capability is one bit of a backend's declared operation surface.
type Capability uint8

const (
	CapList Capability = 1 << iota
	CapReadBytes
	CapWriteBytes
	CapReadObject
	CapWriteObject
	CapDelete
)

// CapabilitySet is a bitmask of Capability values.
type CapabilitySet uint8

// Has reports whether the set declares cap.
func (s CapabilitySet) Has(cap Capability) bool {
	return s&CapabilitySet(cap) != 0
}

// Backend is the uniform byte-level storage surface every concrete
// backend (File, Environment, Cluster config-map) implements.
type Backend interface {
	Name() string
	Capabilities() CapabilitySet

	List(ctx context.Context) ([]string, error)
	ReadBytes(ctx context.Context, key string) ([]byte, error)
	WriteBytes(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// requireCapability returns soloerr.UnsupportedOperation when backend does
// not declare cap; callers should invoke this as the first line of every
// capability-gated method.
func requireCapability(b Backend, cap Capability, opName string) error {
	if !b.Capabilities().Has(cap) {
		return soloerr.UnsupportedOperation(opName, b.Name())
	}
	return nil
}
