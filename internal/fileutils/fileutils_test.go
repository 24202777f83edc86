package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/stmt-clean/internal/fileutils"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	newDir := filepath.Join(t.TempDir(), "new", "nested", "dir")

	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
	assert.True(t, fileutils.DirectoryExists(newDir))

	// Existing directory is fine
	assert.NoError(t, fileutils.EnsureDirectoryExists(newDir))
}

func TestListFilesWithExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.csv", "a.XLSX", "notes.txt", "c.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "nested.csv"), 0750))

	files, err := fileutils.ListFilesWithExtensions(tmpDir, ".csv", ".xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.XLSX"),
		filepath.Join(tmpDir, "b.csv"),
		filepath.Join(tmpDir, "c.csv"),
	}, files)

	_, err = fileutils.ListFilesWithExtensions(filepath.Join(tmpDir, "missing"), ".csv")
	assert.Error(t, err)
}

func TestOutputPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "jan_clean.csv"), fileutils.CleanOutputPath(filepath.Join("in", "jan.xlsx"), "out"))
	assert.Equal(t, filepath.Join("out", "jan_clean_debug.xlsx"), fileutils.DebugWorkbookPath(filepath.Join("out", "jan_clean.csv")))
}
