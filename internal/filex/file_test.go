package filex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesAndIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "media", "captured")

	first, err := EnsureDir(dir)
	require.NoError(t, err)

	fi, err := os.Stat(first)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	second, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsOnFileCollision(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "media")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o660))

	_, err := EnsureDir(path)
	require.Error(t, err)
}

func TestMediaFileName(t *testing.T) {
	a := MediaFileName(".m4a")
	b := MediaFileName("m4a")
	require.NotEqual(t, a, b)
	require.True(t, strings.HasSuffix(a, ".m4a"))
	require.True(t, strings.HasSuffix(b, ".m4a"))

	c := MediaFileName("")
	require.NotContains(t, c, ".")
}

func TestRemoveIfExists(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "f.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o660))

	require.NoError(t, RemoveIfExists(path))
	require.NoError(t, RemoveIfExists(path)) // already gone
}
