package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListReports(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, EnsureDirectories(out))

	files := []string{
		filepath.Join(out, "index.json"),
		filepath.Join(out, FileDir, "work_a.json"),
		filepath.Join(out, FileDir, "work_a.html"),
		filepath.Join(out, ServerDir, "SomeSpec_SSP-001.html"),
		filepath.Join(out, FileDir, "notes.txt"),
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(f, []byte("{}"), 0644))
	}

	got, err := ListReports(zerolog.Nop(), out)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(out, FileDir, "work_a.html"),
		filepath.Join(out, FileDir, "work_a.json"),
		filepath.Join(out, "index.json"),
		filepath.Join(out, ServerDir, "SomeSpec_SSP-001.html"),
	}, got)
}

func TestListReports_MissingDirectory(t *testing.T) {
	got, err := ListReports(zerolog.Nop(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
