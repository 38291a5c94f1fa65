// Package pathsafe implements base-directory-confined path joins and
// regex-escaping helpers used across Solo's storage and config layers
// to keep user-supplied path fragments from escaping a trusted root.
package pathsafe

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// SafeJoinWithBaseDirConfinement resolves base joined with parts and fails
// with soloerr.PathTraversalDetected if the result escapes base. Both base
// and the resolved path must exist on disk.
func SafeJoinWithBaseDirConfinement(base string, parts ...string) (string, error) {
	realBase, err := filepath.EvalSymlinks(base)
	if err != nil {
		return "", fmt.Errorf("resolving base dir %q: %w", base, err)
	}

	joined := filepath.Join(append([]string{base}, parts...)...)
	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", fmt.Errorf("resolving joined path %q: %w", joined, err)
	}

	prefix := realBase + string(filepath.Separator)
	if resolved != realBase && !strings.HasPrefix(resolved, prefix) {
		return "", soloerr.PathTraversalDetected(base, resolved)
	}

	return resolved, nil
}

// regexMeta are the characters Regex.escape() must neutralize so the
// resulting pattern matches only the literal input string.
const regexMeta = `-/\^$*+?.()|[]{}`

// Escape escapes every regex metacharacter in s so the result can be used
// as a literal sub-pattern inside a larger regular expression.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if strings.ContainsRune(regexMeta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
