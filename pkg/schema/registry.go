package schema

import "fmt"

// Registry holds every Schema Solo knows how to migrate/instantiate,
// validated once at startup (spec §3 "Invariant (validated at startup)").
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: map[string]*Schema{}}
}

// Register validates s's migration pipeline and adds it to the registry.
// A validation failure fails loudly before any data migration runs, per
// spec §3.
func (r *Registry) Register(s *Schema) error {
	if err := ValidateMigrations(s); err != nil {
		return err
	}
	r.schemas[s.Name] = s
	return nil
}

// Get looks up a registered schema by name.
func (r *Registry) Get(name string) (*Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// MustGet looks up a registered schema by name, panicking if absent. Only
// used at wiring time for schemas the App itself registered.
func (r *Registry) MustGet(name string) *Schema {
	s, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("schema %q was never registered", name))
	}
	return s
}
