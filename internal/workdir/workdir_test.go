package workdir_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/knobs/internal/workdir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_Override(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "knobs")
	t.Setenv(workdir.RootEnv, dir)

	root, err := workdir.Root()
	require.NoError(t, err)
	assert.Equal(t, dir, root)

	markers, err := workdir.MarkersDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "markers"), markers)

	require.NoError(t, workdir.Prep())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRoot_Default(t *testing.T) {
	t.Setenv(workdir.RootEnv, "")
	t.Setenv("HOME", "/home/knobs")

	root, err := workdir.Root()
	require.NoError(t, err)
	assert.Equal(t, "/home/knobs/Documents/Alkime/Knobs", root)
}
