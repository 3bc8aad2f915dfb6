package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificate-service/internal/common/config"
)

func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	loc := NewLocations(config.StorageConfig{
		TempDir:      filepath.Join(base, "temp"),
		TemplatesDir: filepath.Join(base, "templates"),
		UploadsDir:   filepath.Join(base, "uploads"),
	})

	require.NoError(t, loc.EnsureDirs())

	for _, dir := range []string{loc.TempDir, loc.TemplatesDir, loc.UploadsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Idempotent on existing directories.
	require.NoError(t, loc.EnsureDirs())
}

func TestArtifactPath(t *testing.T) {
	loc := &Locations{TempDir: "temp"}
	assert.Equal(t, filepath.Join("temp", "CERT-42.pdf"), loc.ArtifactPath("CERT-42"))
}

func TestResolveUpload(t *testing.T) {
	loc := &Locations{UploadsDir: "uploads"}

	tests := []struct {
		name    string
		locator string
		want    string
	}{
		{
			name:    "prefixed locator",
			locator: "uploads/custom.docx",
			want:    filepath.Join("uploads", "custom.docx"),
		},
		{
			name:    "bare filename",
			locator: "custom.docx",
			want:    filepath.Join("uploads", "custom.docx"),
		},
		{
			name:    "windows separators",
			locator: "uploads\\sub\\custom.docx",
			want:    filepath.Join("uploads", "sub", "custom.docx"),
		},
		{
			name:    "path traversal is contained",
			locator: "../../etc/passwd",
			want:    filepath.Join("uploads", "etc", "passwd"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loc.ResolveUpload(tt.locator))
		})
	}
}
