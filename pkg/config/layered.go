package config

import (
	"context"
	"sort"
	"sync"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/keyforest"
	"sigs.k8s.io/yaml"
)

// LayeredView composes >=1 Configuration Sources into a single queryable
// view: the value for a key comes from the highest-ordinal source that
// defines it (spec §4.D).
type LayeredView struct {
	mu      sync.RWMutex
	sources []Source
	merged  map[string]string
}

// NewLayeredView sorts sources by ascending ordinal and builds the initial
// merged view.
func NewLayeredView(sources ...Source) *LayeredView {
	v := &LayeredView{}
	v.sources = append([]Source(nil), sources...)
	v.sortSources()
	v.rebuild()
	return v
}

func (v *LayeredView) sortSources() {
	sort.SliceStable(v.sources, func(i, j int) bool {
		return v.sources[i].Ordinal() < v.sources[j].Ordinal()
	})
}

// rebuild walks sources ascending, each later source overwriting earlier
// keys, exposing the result as v.merged. Caller must hold v.mu for writing.
func (v *LayeredView) rebuild() {
	merged := map[string]string{}
	for _, s := range v.sources {
		for k, val := range s.Properties() {
			merged[keyforest.Normalize(k)] = val
		}
	}
	v.merged = merged
}

// AddSource inserts an additional source and rebuilds the merged view.
func (v *LayeredView) AddSource(s Source) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sources = append(v.sources, s)
	v.sortSources()
	v.rebuild()
}

// Sources returns the sources backing this view, ascending by ordinal.
func (v *LayeredView) Sources() []Source {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Source(nil), v.sources...)
}

// Refresh calls Refresh() on every Refreshable source in parallel.
// Failures are aggregated and reported but never leave the view partially
// updated: on any failure, the previous merged state is retained.
func (v *LayeredView) Refresh(ctx context.Context) error {
	v.mu.RLock()
	sources := append([]Source(nil), v.sources...)
	v.mu.RUnlock()

	var wg sync.WaitGroup
	errs := make([]error, len(sources))
	for i, s := range sources {
		refreshable, ok := s.(Refreshable)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(i int, r Refreshable) {
			defer wg.Done()
			errs[i] = r.Refresh(ctx)
		}(i, refreshable)
	}
	wg.Wait()

	var failures []error
	for _, err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		return soloerr.Configuration("refreshing configuration sources: %v", failures)
	}

	v.mu.Lock()
	v.rebuild()
	v.mu.Unlock()
	return nil
}

// properties returns a snapshot of the merged flat map.
func (v *LayeredView) properties() map[string]string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.merged
}

// Properties enumerates every key visible in the view (untyped).
func (v *LayeredView) Properties() map[string]string {
	props := v.properties()
	out := make(map[string]string, len(props))
	for k, val := range props {
		out[k] = val
	}
	return out
}

// forest builds a keyforest over the current merged properties.
func (v *LayeredView) forest() *keyforest.Forest {
	return keyforest.From(v.properties())
}

// AsString returns the coerced-to-string value for key.
func (v *LayeredView) AsString(key string) (string, bool) {
	val, ok := v.properties()[keyforest.Normalize(key)]
	return val, ok
}

// AsBool coerces the value for key to a boolean.
func (v *LayeredView) AsBool(key string) (bool, bool) {
	val, ok := v.AsString(key)
	if !ok {
		return false, false
	}
	b, ok := keyforest.Coerce(&val).(bool)
	return b, ok
}

// AsNumber coerces the value for key to a float64.
func (v *LayeredView) AsNumber(key string) (float64, bool) {
	val, ok := v.AsString(key)
	if !ok {
		return 0, false
	}
	n, ok := keyforest.Coerce(&val).(float64)
	return n, ok
}

// AsStringList returns the ordered string values of an array-shaped key.
func (v *LayeredView) AsStringList(key string) ([]string, bool) {
	return v.forest().ArrayValues(key)
}

// AsObject decodes the object rooted at key into out (a pointer) by a
// YAML marshal/unmarshal round trip (sigs.k8s.io/yaml, so out's json tags
// apply). It does not go through pkg/schema: no schema migration or
// field-rule validation runs on the decoded value.
func (v *LayeredView) AsObject(key string, out any) error {
	obj, ok := v.forest().ObjectAt(key)
	if !ok {
		return soloerr.Configuration("key %q not found", key)
	}
	m, ok := obj.(map[string]any)
	if !ok {
		return soloerr.Configuration("key %q is not an object", key)
	}
	raw, err := yaml.Marshal(m)
	if err != nil {
		return soloerr.Configuration("marshaling %q for decoding: %v", key, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return soloerr.Configuration("decoding %q: %v", key, err)
	}
	return nil
}

// AsObjectList decodes the array rooted at key, where each element is
// itself an object, into a slice. newElem must return a pointer to a new
// zero-value element each call.
func (v *LayeredView) AsObjectList(key string, newElem func() any) ([]any, error) {
	obj, ok := v.forest().ObjectAt(key)
	if !ok {
		return nil, soloerr.Configuration("key %q not found", key)
	}
	arr, ok := obj.([]any)
	if !ok {
		return nil, soloerr.Configuration("key %q is not an array node", key)
	}

	out := make([]any, 0, len(arr))
	for i, elem := range arr {
		m, ok := elem.(map[string]any)
		if !ok {
			return nil, soloerr.Configuration("element %d of %q is not an object", i, key)
		}
		raw, err := yaml.Marshal(m)
		if err != nil {
			return nil, soloerr.Configuration("marshaling element %d of %q: %v", i, key, err)
		}
		target := newElem()
		if err := yaml.Unmarshal(raw, target); err != nil {
			return nil, soloerr.Configuration("decoding element %d of %q: %v", i, key, err)
		}
		out = append(out, target)
	}
	return out, nil
}
