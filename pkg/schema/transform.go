package schema

import (
	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"sigs.k8s.io/yaml"
)

// deepClone deep-copies a plain object via a YAML marshal/unmarshal round
// trip, the simplest allocation-light way to guarantee a migration can
// never observe or mutate the caller's original map.
func deepClone(data map[string]any) (map[string]any, error) {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Migrate walks data forward through s's migration pipeline until its
// version equals s.Version, applying §4.C's "Never partial" rule: if no
// eligible migration can advance the data, the operation fails rather
// than returning a document whose version lags the schema.
func Migrate(s *Schema, data map[string]any) (map[string]any, error) {
	version := DataVersion(data)
	current := data

	steps := 0
	maxSteps := len(s.Migrations) + 1
	for version != s.Version {
		m, ok := selectMigration(version, s.Migrations)
		if !ok {
			return nil, soloerr.InvalidSchemaVersion(version)
		}

		clone, err := deepClone(current)
		if err != nil {
			return nil, soloerr.SchemaMigration("cloning data before migration for schema %q: %v", s.Name, err)
		}

		migrated, err := m.Apply(clone)
		if err != nil {
			return nil, soloerr.SchemaMigration("migration to version '%d' failed for schema %q: %v", m.ResultVersion, s.Name, err)
		}

		migrated[SchemaVersionKey] = m.ResultVersion
		current = migrated
		version = m.ResultVersion

		steps++
		if steps > maxSteps {
			return nil, soloerr.SchemaMigration("migration pipeline for schema %q did not terminate", s.Name)
		}
	}
	return current, nil
}

// Transform migrates data to s's current version, then unmarshals the
// result into out (a pointer to the target class/struct), completing the
// plain-object -> typed-model conversion.
func Transform(s *Schema, data map[string]any, out any) error {
	migrated, err := Migrate(s, data)
	if err != nil {
		return err
	}
	raw, err := yaml.Marshal(migrated)
	if err != nil {
		return soloerr.Configuration("marshaling migrated data for schema %q: %v", s.Name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return soloerr.Configuration("instantiating %q from migrated data: %v", s.Name, err)
	}
	return nil
}

// ToObject is the reverse projection: marshal a typed model back into a
// plain object map, e.g. before writing it through a Storage Backend.
func ToObject(v any) (map[string]any, error) {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return nil, soloerr.Configuration("marshaling value to object form: %v", err)
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, soloerr.Configuration("unmarshaling value to object form: %v", err)
	}
	return out, nil
}
