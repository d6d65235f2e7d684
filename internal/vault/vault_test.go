package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockedFolder returns a game folder whose vault path is taken by a regular
// file, so nothing can be written under it regardless of the test user.
func blockedFolder(t *testing.T) string {
	t.Helper()
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, DirName), []byte("not a dir"), 0o644))
	return folder
}

func TestPaths(t *testing.T) {
	folder := "/games/TestGame"
	assert.Equal(t, "/games/TestGame/.gamevault", Dir(folder))
	assert.Equal(t, "/games/TestGame/.gamevault/cover.jpg", CoverPath(folder))
	assert.Equal(t, "/games/TestGame/.gamevault/background.jpg", BackgroundPath(folder))
	assert.Equal(t, "/games/TestGame/.gamevault/metadata.json", MetadataPath(folder))
}

func TestIsWritable_CreatesVaultDir(t *testing.T) {
	folder := t.TempDir()

	assert.True(t, IsWritable(folder))
	info, err := os.Stat(Dir(folder))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestIsWritable_ExistingVaultDir(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.Mkdir(Dir(folder), 0o755))

	assert.True(t, IsWritable(folder))
	_, err := os.Stat(filepath.Join(Dir(folder), writeProbe))
	assert.True(t, os.IsNotExist(err), "probe file is removed")
}

func TestIsWritable_MissingFolder(t *testing.T) {
	assert.False(t, IsWritable(filepath.Join(t.TempDir(), "missing")))
}

func TestIsWritable_Blocked(t *testing.T) {
	assert.False(t, IsWritable(blockedFolder(t)))
}

func TestIsWritable_ReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	folder := t.TempDir()
	require.NoError(t, os.Chmod(folder, 0o555))
	t.Cleanup(func() { _ = os.Chmod(folder, 0o755) })

	assert.False(t, IsWritable(folder))
}

func TestEnsureDir(t *testing.T) {
	folder := t.TempDir()
	dir, err := EnsureDir(folder)
	require.NoError(t, err)
	assert.Equal(t, Dir(folder), dir)

	_, err = EnsureDir(blockedFolder(t))
	assert.Error(t, err)
}
