// internal/template/resolver.go
package template

import (
	"os"
	"path/filepath"
	"strings"

	"certificate-service/internal/common/errors"
	"certificate-service/internal/common/logger"
	"certificate-service/internal/models"
	"certificate-service/internal/storage"
)

// Kind classifies a resolved template by how the pipeline must process it.
type Kind string

const (
	// KindDocument is a word-processing template that goes through
	// placeholder substitution and HTML conversion.
	KindDocument Kind = "document"
	// KindImage is a flat background image composed with overlay zones.
	KindImage Kind = "image"
)

// Resolved is the outcome of template resolution: an absolute path on disk
// plus the processing kind derived from the file extension.
type Resolved struct {
	Path string
	Kind Kind
}

// Resolver locates the template for a generation request. Strategies are
// tried in order: the caller-supplied upload first, then the per-type
// defaults. The first strategy whose file exists wins.
type Resolver struct {
	locations *storage.Locations
	log       logger.Logger
}

func NewResolver(locations *storage.Locations, log logger.Logger) *Resolver {
	return &Resolver{locations: locations, log: log}
}

// defaultCandidates returns the default template file names for a document
// type, in priority order. The offer-letter image default is tried before
// the offer-letter document default, so a deployment that ships both gets
// the image path.
func defaultCandidates(docType models.DocumentType) []string {
	switch docType {
	case models.DocumentTypeOfferLetter:
		return []string{"offer-letter.png", "offer-letter.docx"}
	default:
		return []string{"default.jpg"}
	}
}

// Resolve picks the template for the request. A caller-supplied locator that
// does not exist on disk is not an error; resolution falls through to the
// defaults and only fails when no candidate exists at all.
func (r *Resolver) Resolve(req *models.GenerationRequest) (*Resolved, error) {
	var tried []string

	if req.TemplateURL != "" {
		path := r.locations.ResolveUpload(req.TemplateURL)
		tried = append(tried, path)
		if fileExists(path) {
			return &Resolved{Path: path, Kind: kindOf(path)}, nil
		}
		r.log.Warn("Uploaded template not found, falling back to default", map[string]interface{}{
			"path": path,
		})
	}

	docType := req.DocumentType()
	for _, name := range defaultCandidates(docType) {
		path := r.locations.DefaultTemplatePath(name)
		tried = append(tried, path)
		if fileExists(path) {
			return &Resolved{Path: path, Kind: kindOf(path)}, nil
		}
	}

	return nil, errors.NewTemplateResolutionError(string(docType), tried)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func kindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx", ".doc":
		return KindDocument
	default:
		return KindImage
	}
}
