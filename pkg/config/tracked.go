package config

import "sync"

// TrackedView wraps a LayeredView and records every key actually read
// through it, so a command can report which declared flags went unused
// (spec Design Notes: "used-config tracking records every key accessed
// through a view; unusedFlags() is the declared set minus the accessed
// set"). Wrapping rather than subclassing keeps LayeredView itself free of
// bookkeeping that only the CLI layer cares about.
type TrackedView struct {
	view *LayeredView

	mu       sync.Mutex
	declared map[string]struct{}
	accessed map[string]struct{}
}

// NewTrackedView wraps view, declaring the given keys as the full set a
// caller expects might be consulted (typically every flag a command
// accepts).
func NewTrackedView(view *LayeredView, declaredKeys ...string) *TrackedView {
	t := &TrackedView{
		view:     view,
		declared: make(map[string]struct{}, len(declaredKeys)),
		accessed: map[string]struct{}{},
	}
	for _, k := range declaredKeys {
		t.declared[k] = struct{}{}
	}
	return t
}

func (t *TrackedView) record(key string) {
	t.mu.Lock()
	t.accessed[key] = struct{}{}
	t.mu.Unlock()
}

// AsString reads key, recording the access.
func (t *TrackedView) AsString(key string) (string, bool) {
	t.record(key)
	return t.view.AsString(key)
}

// AsBool reads key, recording the access.
func (t *TrackedView) AsBool(key string) (bool, bool) {
	t.record(key)
	return t.view.AsBool(key)
}

// AsNumber reads key, recording the access.
func (t *TrackedView) AsNumber(key string) (float64, bool) {
	t.record(key)
	return t.view.AsNumber(key)
}

// AsStringList reads key, recording the access.
func (t *TrackedView) AsStringList(key string) ([]string, bool) {
	t.record(key)
	return t.view.AsStringList(key)
}

// AsObject reads key, recording the access.
func (t *TrackedView) AsObject(key string, out any) error {
	t.record(key)
	return t.view.AsObject(key, out)
}

// AsObjectList reads key, recording the access.
func (t *TrackedView) AsObjectList(key string, newElem func() any) ([]any, error) {
	t.record(key)
	return t.view.AsObjectList(key, newElem)
}

// UnusedFlags returns the declared keys that were never read through this
// view, sorted is left to the caller since the set is typically small and
// printed as-is.
func (t *TrackedView) UnusedFlags() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var unused []string
	for k := range t.declared {
		if _, used := t.accessed[k]; !used {
			unused = append(unused, k)
		}
	}
	return unused
}

// Underlying returns the wrapped LayeredView, for callers that need
// Refresh/AddSource or other untracked operations.
func (t *TrackedView) Underlying() *LayeredView {
	return t.view
}
