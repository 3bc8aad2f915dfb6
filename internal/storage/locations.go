// internal/storage/locations.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"certificate-service/internal/common/config"
)

// Locations is the explicit set of directories the pipeline works with.
// It replaces ambient process-wide directory state: construct it once at
// startup, call EnsureDirs, and pass it to the orchestrator.
type Locations struct {
	TempDir      string
	TemplatesDir string
	UploadsDir   string
}

// NewLocations builds Locations from configuration.
func NewLocations(cfg config.StorageConfig) *Locations {
	return &Locations{
		TempDir:      cfg.TempDir,
		TemplatesDir: cfg.TemplatesDir,
		UploadsDir:   cfg.UploadsDir,
	}
}

// EnsureDirs creates every directory that does not exist yet. Called once
// at process start.
func (l *Locations) EnsureDirs() error {
	for _, dir := range []string{l.TempDir, l.TemplatesDir, l.UploadsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ArtifactPath returns the deterministic output path for a certificate ID.
// Regenerating the same ID overwrites the previous artifact.
func (l *Locations) ArtifactPath(certificateID string) string {
	return filepath.Join(l.TempDir, certificateID+".pdf")
}

// DefaultTemplatePath returns the path of a built-in template file.
func (l *Locations) DefaultTemplatePath(name string) string {
	return filepath.Join(l.TemplatesDir, name)
}

// ResolveUpload normalizes a caller-supplied template locator to a path
// under the uploads directory. Locators arrive either as "uploads/file.docx"
// or as a bare filename; backslashes are tolerated from Windows-side
// uploaders.
func (l *Locations) ResolveUpload(locator string) string {
	clean := strings.ReplaceAll(locator, "\\", "/")
	clean = strings.TrimPrefix(clean, "uploads/")
	// Reject path traversal outside the uploads dir.
	clean = filepath.Clean("/" + clean)
	return filepath.Join(l.UploadsDir, strings.TrimPrefix(clean, "/"))
}
