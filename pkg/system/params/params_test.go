package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeParams(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.tsv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_ParsesKeyValuePairs(t *testing.T) {
	path := writeParams(t, "# a comment\nA\t5.5e12\nGamma_IT\t4.5\n\nB\t8e11\n")

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5.5e12, p["A"])
	assert.Equal(t, 4.5, p["Gamma_IT"])
	assert.Equal(t, 8e11, p["B"])
}

func TestLoad_IgnoresMalformedLines(t *testing.T) {
	path := writeParams(t, "A\t5.5e12\nnotakeyvalue\nB\tnotanumber\nC\t1.0\n")

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5.5e12, p["A"])
	assert.Equal(t, 1.0, p["C"])
	_, hasB := p["B"]
	assert.False(t, hasB)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.Error(t, err)
}

func TestLoadOrWarn_EmptyPathReturnsEmptyParams(t *testing.T) {
	p := LoadOrWarn("")
	assert.Empty(t, p)
}
