package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificate-service/internal/callback"
	"certificate-service/internal/common/config"
	"certificate-service/internal/common/errors"
	"certificate-service/internal/common/logger"
	"certificate-service/internal/mailer"
	"certificate-service/internal/models"
	"certificate-service/internal/render"
	"certificate-service/internal/storage"
	"certificate-service/internal/template"
)

type stubRenderer struct {
	pdf      []byte
	err      error
	lastHTML string
	lastOpts render.Options
}

func (s *stubRenderer) RenderPDF(_ context.Context, html string, opts render.Options) ([]byte, error) {
	s.lastHTML = html
	s.lastOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.pdf, nil
}

type stubSender struct {
	err  error
	sent []mailer.Message
}

func (s *stubSender) Send(_ context.Context, msg mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type fixture struct {
	orch      *Orchestrator
	locations *storage.Locations
	renderer  *stubRenderer
	sender    *stubSender
}

func newFixture(t *testing.T, mutate func(*Dependencies)) *fixture {
	t.Helper()
	root := t.TempDir()

	cfg := &config.Config{}
	cfg.Server.ServiceURL = "http://svc.example.com"
	cfg.Document.CompanyName = "Inspire Softech Solutions"
	cfg.Email.From = "noreply@example.com"
	cfg.Storage = config.StorageConfig{
		TempDir:      filepath.Join(root, "temp"),
		TemplatesDir: filepath.Join(root, "templates"),
		UploadsDir:   filepath.Join(root, "uploads"),
	}

	loc := storage.NewLocations(cfg.Storage)
	require.NoError(t, loc.EnsureDirs())

	log := logger.NewNoOpLogger()
	renderer := &stubRenderer{pdf: []byte("%PDF-1.4 stub")}
	sender := &stubSender{}

	deps := Dependencies{
		Config:    cfg,
		Logger:    log,
		Resolver:  template.NewResolver(loc, log),
		Cache:     template.NewCache(nil, time.Minute, log),
		Renderer:  renderer,
		Pool:      render.NewPool(1),
		Locations: loc,
		Sender:    sender,
	}
	if mutate != nil {
		mutate(&deps)
	}

	return &fixture{
		orch:      New(deps),
		locations: loc,
		renderer:  renderer,
		sender:    sender,
	}
}

func writeTemplate(t *testing.T, loc *storage.Locations, name string, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(loc.DefaultTemplatePath(name), content, 0o644))
}

func documentTemplate(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types/>`,
		"word/document.xml":   documentXML,
	} {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func certificateRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		StudentData: models.StudentData{
			Name:            "Jane Doe",
			Email:           "jane@example.com",
			RegisterNumber:  "12345",
			InstitutionName: "Test College",
		},
		CourseData:    models.CourseData{Title: "Cloud Computing"},
		CertificateID: "cert-1001",
	}
}

func TestGenerate_ImagePath(t *testing.T) {
	f := newFixture(t, nil)
	writeTemplate(t, f.locations, "default.jpg", []byte("jpeg-bytes"))

	artifact, err := f.orch.Generate(context.Background(), certificateRequest())
	require.NoError(t, err)

	assert.Equal(t, "cert-1001", artifact.CertificateID)
	assert.Equal(t, "http://svc.example.com/files/cert-1001.pdf", artifact.FileURL)

	written, err := os.ReadFile(f.locations.ArtifactPath("cert-1001"))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 stub"), written)
	assert.EqualValues(t, len(written), artifact.SizeBytes)

	assert.Contains(t, f.renderer.lastHTML, "JANE DOE (12345)")
	assert.Contains(t, f.renderer.lastHTML, "data:image/jpeg;base64,")
	assert.True(t, f.renderer.lastOpts.Landscape)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "jane@example.com", f.sender.sent[0].To)
	assert.Equal(t, "Certificate_Jane_Doe.pdf", f.sender.sent[0].AttachmentName)
}

func TestGenerate_DocumentPath(t *testing.T) {
	f := newFixture(t, nil)
	writeTemplate(t, f.locations, "offer-letter.docx", documentTemplate(t,
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`+
			`<w:body><w:p><w:r><w:t>Dear [%name%], welcome to [%Company_Name%].</w:t></w:r></w:p></w:body></w:document>`))

	req := certificateRequest()
	req.Type = "offer-letter"

	_, err := f.orch.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, f.renderer.lastHTML, "Dear Jane Doe, welcome to Inspire Softech Solutions.")
	assert.False(t, f.renderer.lastOpts.Landscape)
	assert.Equal(t, render.OptionsFor(models.DocumentTypeOfferLetter, template.KindDocument), f.renderer.lastOpts)
}

func TestGenerate_DocumentPathRepairsTemplate(t *testing.T) {
	f := newFixture(t, nil)
	writeTemplate(t, f.locations, "offer-letter.docx", documentTemplate(t,
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`+
			`<w:body><w:p><w:r><w:t>Dear [%na</w:t><w:t>me%]!</w:t></w:r></w:p></w:body></w:document>`))

	req := certificateRequest()
	req.Type = "offer-letter"

	_, err := f.orch.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, f.renderer.lastHTML, "Dear Jane Doe!")
}

func TestGenerate_SameIDOverwritesArtifact(t *testing.T) {
	f := newFixture(t, nil)
	writeTemplate(t, f.locations, "default.jpg", []byte("jpeg-bytes"))

	f.renderer.pdf = []byte("%PDF-1.4 first")
	_, err := f.orch.Generate(context.Background(), certificateRequest())
	require.NoError(t, err)

	req := certificateRequest()
	req.StudentData.Name = "John Smith"
	f.renderer.pdf = []byte("%PDF-1.4 second")
	artifact, err := f.orch.Generate(context.Background(), req)
	require.NoError(t, err)

	// Regeneration is not deduplicated: one file per ID, last render wins.
	pdfs, err := filepath.Glob(filepath.Join(f.locations.TempDir, "*.pdf"))
	require.NoError(t, err)
	require.Len(t, pdfs, 1)
	assert.Equal(t, f.locations.ArtifactPath("cert-1001"), pdfs[0])

	written, err := os.ReadFile(artifact.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 second"), written)
	assert.Contains(t, f.renderer.lastHTML, "JOHN SMITH")
}

func TestGenerate_NoTemplateIsFatal(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.orch.Generate(context.Background(), certificateRequest())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTemplateResolutionFailed, errors.CodeOf(err))
	assert.NoFileExists(t, f.locations.ArtifactPath("cert-1001"))
}

func TestGenerate_RenderFailureIsFatal(t *testing.T) {
	f := newFixture(t, nil)
	writeTemplate(t, f.locations, "default.jpg", []byte("jpeg-bytes"))
	f.renderer.err = errors.NewRenderEngineError(assert.AnError)

	_, err := f.orch.Generate(context.Background(), certificateRequest())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRenderEngineFailed, errors.CodeOf(err))
	assert.NoFileExists(t, f.locations.ArtifactPath("cert-1001"))
}

func TestGenerate_EmailFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, nil)
	writeTemplate(t, f.locations, "default.jpg", []byte("jpeg-bytes"))
	f.sender.err = assert.AnError

	artifact, err := f.orch.Generate(context.Background(), certificateRequest())
	require.NoError(t, err)
	assert.FileExists(t, artifact.Path)
}

func TestGenerate_CallbackDelivered(t *testing.T) {
	var got callback.Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, jsonDecode(r, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := newFixture(t, func(d *Dependencies) {
		d.Callbacks = callback.NewClient(2*time.Second, logger.NewNoOpLogger())
	})
	writeTemplate(t, f.locations, "default.jpg", []byte("jpeg-bytes"))

	req := certificateRequest()
	req.CallbackURL = srv.URL

	_, err := f.orch.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "cert-1001", got.CertificateID)
	assert.Equal(t, "sent", got.Status)
	assert.Equal(t, "http://svc.example.com/files/cert-1001.pdf", got.Metadata.FileURL)
	assert.NotEmpty(t, got.Metadata.MessageID)
}

func TestGenerate_CallbackFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newFixture(t, func(d *Dependencies) {
		d.Callbacks = callback.NewClient(2*time.Second, logger.NewNoOpLogger())
	})
	writeTemplate(t, f.locations, "default.jpg", []byte("jpeg-bytes"))

	req := certificateRequest()
	req.CallbackURL = srv.URL

	artifact, err := f.orch.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.FileExists(t, artifact.Path)
}

func jsonDecode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
