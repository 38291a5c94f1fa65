// Package config implements Solo's Layered Config Source (spec §4.D):
// composing one or more Configuration Sources (spec §3) by ordinal
// precedence, with typed accessors and parallel refresh.
package config

import (
	"context"

	"github.com/hashgraph/solo-sub009/pkg/keyforest"
)

// Source is one Configuration Source: a named, ordinal-ranked bag of flat
// dotted properties. Higher Ordinal wins when two sources define the same
// key.
type Source interface {
	Name() string
	Ordinal() int
	Properties() map[string]string
}

// Refreshable is implemented by sources that can reload themselves from
// their backing store.
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Mutable is implemented by sources that accept object writes.
type Mutable interface {
	WriteObject(ctx context.Context, key string, obj any) error
}

// MapSource is a static, in-memory Configuration Source — the simplest
// concrete Source, typically used for CLI flag/argv overrides.
type MapSource struct {
	name       string
	ordinal    int
	properties map[string]string
}

// NewMapSource constructs a static Source from an already-flat property
// map. Keys are normalized through keyforest.Normalize.
func NewMapSource(name string, ordinal int, properties map[string]string) *MapSource {
	normalized := make(map[string]string, len(properties))
	for k, v := range properties {
		normalized[keyforest.Normalize(k)] = v
	}
	return &MapSource{name: name, ordinal: ordinal, properties: normalized}
}

func (s *MapSource) Name() string                  { return s.name }
func (s *MapSource) Ordinal() int                   { return s.ordinal }
func (s *MapSource) Properties() map[string]string { return s.properties }

// Set mutates a key in place (MapSource is always Mutable in the
// untyped-property sense; used by tests and by flag binding).
func (s *MapSource) Set(key, value string) {
	s.properties[keyforest.Normalize(key)] = value
}
