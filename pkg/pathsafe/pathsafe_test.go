package pathsafe_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/pathsafe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeJoinAllowsPathsUnderBase(t *testing.T) {
	base := t.TempDir()
	sub := filepath.Join(base, "child")
	require.NoError(t, os.Mkdir(sub, 0o755))

	resolved, err := pathsafe.SafeJoinWithBaseDirConfinement(base, "child")
	require.NoError(t, err)
	assert.Equal(t, sub, resolved)
}

func TestSafeJoinRejectsEscapingParentTraversal(t *testing.T) {
	base := t.TempDir()
	outside := t.TempDir()
	_ = outside

	_, err := pathsafe.SafeJoinWithBaseDirConfinement(base, "..")
	require.Error(t, err)
	assert.True(t, soloerr.Is(err, soloerr.KindPathTraversal))
}

func TestEscapeNeutralizesRegexMetacharacters(t *testing.T) {
	escaped := pathsafe.Escape("a.b*c")
	assert.Equal(t, `a\.b\*c`, escaped)
}

func TestEscapeLeavesPlainSegmentsUnchanged(t *testing.T) {
	escaped := pathsafe.Escape("plainSegment123")
	assert.Equal(t, "plainSegment123", escaped)
}
