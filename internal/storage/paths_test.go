package storage

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDatabaseDirHonoursXDG(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG_DATA_HOME applies to Unix-like systems")
	}
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)

	dir, err := GetDatabaseDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "gameplay", "archive"), dir)
	assert.DirExists(t, dir)
}
