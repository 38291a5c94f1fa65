// Package schema implements Solo's Object Mapper & Schema Registry (spec
// §4.C): bidirectional plain-object <-> typed-model conversion, schema
// versioning, and a migration pipeline with sequence validation.
package schema

import (
	"sort"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// Migration declares a half-open range [FromVersion, ToVersionExclusive)
// of input versions it accepts and the ResultVersion produced after
// applying it. Apply must not mutate its input map; callers always pass a
// deep clone.
type Migration struct {
	FromVersion        int
	ToVersionExclusive int
	ResultVersion      int
	Apply              func(data map[string]any) (map[string]any, error)
}

func (m Migration) accepts(version int) bool {
	return version >= m.FromVersion && version < m.ToVersionExclusive
}

// Schema declares a named, versioned model with its migration pipeline.
type Schema struct {
	Name       string
	Version    int // the current ("target") schema version
	Migrations []Migration
}

// SchemaVersionKey is the conventional field name schema-versioned
// documents carry (spec §3, §6: "schemaVersion").
const SchemaVersionKey = "schemaVersion"

// selectMigration picks, among the migrations whose range contains
// version, the one with the lowest ResultVersion (spec §4.C "Migration
// selection").
func selectMigration(version int, migrations []Migration) (Migration, bool) {
	var candidates []Migration
	for _, m := range migrations {
		if m.accepts(version) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return Migration{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ResultVersion < candidates[j].ResultVersion
	})
	return candidates[0], true
}

// ValidateMigrations is the pre-use invariant from spec §4.C: the union of
// migration ranges must form an unbroken sequence 0 -> Version with no
// duplicate resulting versions. It must be called once per Schema before
// any real Transform is attempted.
func ValidateMigrations(s *Schema) error {
	seen := map[int]bool{}
	for _, m := range s.Migrations {
		if seen[m.ResultVersion] {
			return soloerr.SchemaValidation("duplicate migration result version '%d' in schema %q", m.ResultVersion, s.Name)
		}
		seen[m.ResultVersion] = true
	}

	version := 0
	steps := 0
	maxSteps := len(s.Migrations) + 1
	for version != s.Version {
		m, ok := selectMigration(version, s.Migrations)
		if !ok {
			return soloerr.SchemaValidation("No migration found for version '%d'", version)
		}
		if m.ResultVersion <= version {
			return soloerr.SchemaValidation("migration from version '%d' does not advance schema %q", version, s.Name)
		}
		version = m.ResultVersion
		steps++
		if steps > maxSteps {
			return soloerr.SchemaValidation("migration pipeline for schema %q does not terminate", s.Name)
		}
	}
	return nil
}

// DataVersion introspects the schemaVersion field of a plain object,
// defaulting to 0 when absent (spec §4.C "Transform").
func DataVersion(data map[string]any) int {
	raw, ok := data[SchemaVersionKey]
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
