package integrity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorstore/sensorstore/store"
	dbio "github.com/sensorstore/sensorstore/utils/io"
)

func TestCheckFile(t *testing.T) {
	rootDir := t.TempDir()
	s, err := store.NewStore(rootDir)
	require.Nil(t, err)
	defer s.Close()

	for i := 0; i < 100; i++ {
		require.Nil(t, s.Append("temp01", int64(i), float64(i)))
	}

	path := filepath.Join(rootDir, "temp01"+store.FileSuffix)
	assert.Nil(t, checkFile(path))
}

func TestCheckFileTruncated(t *testing.T) {
	rootDir := t.TempDir()
	s, err := store.NewStore(rootDir)
	require.Nil(t, err)
	defer s.Close()

	require.Nil(t, s.Append("temp01", 0, 1.0))
	path := filepath.Join(rootDir, "temp01"+store.FileSuffix)
	require.Nil(t, os.Truncate(path, dbio.RecordLength-1))

	assert.NotNil(t, checkFile(path))
}

func TestCheckFileWrongSensorID(t *testing.T) {
	rootDir := t.TempDir()
	s, err := store.NewStore(rootDir)
	require.Nil(t, err)
	defer s.Close()

	require.Nil(t, s.Append("temp01", 0, 1.0))

	// A record for temp01 inside temp02's log file.
	src := filepath.Join(rootDir, "temp01"+store.FileSuffix)
	dst := filepath.Join(rootDir, "temp02"+store.FileSuffix)
	data, err := os.ReadFile(src)
	require.Nil(t, err)
	require.Nil(t, os.WriteFile(dst, data, 0o600))

	assert.Nil(t, checkFile(src))
	assert.NotNil(t, checkFile(dst))
}
