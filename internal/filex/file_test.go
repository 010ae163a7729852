package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubDir("exports")
	require.NoError(t, err)

	want := filepath.Join(tmp, "exports")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")
}

func TestEnsureSubDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubDir("exports")
	require.NoError(t, err)

	second, err := EnsureSubDir("exports")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureSubDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("exports", []byte("x"), 0o660))

	_, err := EnsureSubDir("exports")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestSafeName(t *testing.T) {
	require.Equal(t, "asset", SafeName("   "))
	require.Equal(t, "a_b_c", SafeName("a/b\\c"))
	require.Equal(t, "sunset.png", SafeName("sunset.png"))
}

func TestWriteAsset_UniqueNames(t *testing.T) {
	dir := t.TempDir()

	first, err := WriteAsset(dir, "clip.mp4", []byte("one"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "clip.mp4"), first)

	second, err := WriteAsset(dir, "clip.mp4", []byte("two"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "clip_1.mp4"), second)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	require.Equal(t, []byte("one"), data)
}
