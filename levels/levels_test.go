package levels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEmbedded(t *testing.T) {
	for _, name := range []string{"level.json", "levels/level.json"} {
		data, err := Read(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data)
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read("nowhere.json")
	require.Error(t, err)
	assert.True(t, IsNotExist(err))
}

func TestDiskShadowsEmbedded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "levels"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "levels", "level.json"), []byte(`{"disk":true}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "levels", "cave.json"), []byte(`{}`), 0o644))
	t.Chdir(dir)

	data, err := Read("level.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"disk":true}`, string(data))

	names, err := List()
	require.NoError(t, err)
	assert.Equal(t, []string{"cave.json", "level.json"}, names)
}
