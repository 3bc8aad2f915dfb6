// internal/pipeline/orchestrator.go
// Package pipeline runs one generation request through its stages: template
// resolution, composition, rasterization, artifact write, delivery.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"certificate-service/internal/callback"
	"certificate-service/internal/common/config"
	"certificate-service/internal/common/errors"
	"certificate-service/internal/common/logger"
	"certificate-service/internal/common/metrics"
	"certificate-service/internal/docx"
	"certificate-service/internal/layout"
	"certificate-service/internal/mailer"
	"certificate-service/internal/models"
	"certificate-service/internal/render"
	"certificate-service/internal/storage"
	"certificate-service/internal/template"
)

// Renderer rasterizes composed HTML. Satisfied by *render.Chrome; tests
// substitute a stub.
type Renderer interface {
	RenderPDF(ctx context.Context, html string, opts render.Options) ([]byte, error)
}

// Dependencies wires the orchestrator's collaborators. Sender and Callbacks
// may be nil; the corresponding delivery step is skipped.
type Dependencies struct {
	Config    *config.Config
	Logger    logger.Logger
	Resolver  *template.Resolver
	Cache     *template.Cache
	Renderer  Renderer
	Pool      *render.Pool
	Locations *storage.Locations
	Sender    mailer.Sender
	Callbacks *callback.Client
}

type Orchestrator struct {
	cfg       *config.Config
	log       logger.Logger
	resolver  *template.Resolver
	cache     *template.Cache
	renderer  Renderer
	pool      *render.Pool
	locations *storage.Locations
	sender    mailer.Sender
	callbacks *callback.Client
}

func New(deps Dependencies) *Orchestrator {
	return &Orchestrator{
		cfg:       deps.Config,
		log:       deps.Logger,
		resolver:  deps.Resolver,
		cache:     deps.Cache,
		renderer:  deps.Renderer,
		pool:      deps.Pool,
		locations: deps.Locations,
		sender:    deps.Sender,
		callbacks: deps.Callbacks,
	}
}

// Generate runs the full pipeline for one request. A returned error is
// always fatal: no artifact exists. Email and callback failures are
// recorded as warnings and never fail the generation.
func (o *Orchestrator) Generate(ctx context.Context, req *models.GenerationRequest) (*models.Artifact, error) {
	docType := req.DocumentType()
	log := o.log.WithFields(map[string]interface{}{
		"certificateId": req.CertificateID,
		"documentType":  string(docType),
	})

	artifact, err := o.generate(ctx, req, log)
	if err != nil {
		metrics.GenerationsFailed.WithLabelValues(string(docType), string(errors.CodeOf(err))).Inc()
		log.WithError(err).Error("Generation failed", nil)
		return nil, err
	}

	metrics.GenerationsCompleted.WithLabelValues(string(docType)).Inc()
	log.Info("Generation completed", map[string]interface{}{
		"path":      artifact.Path,
		"sizeBytes": artifact.SizeBytes,
	})

	o.deliver(ctx, req, artifact, log)
	return artifact, nil
}

func (o *Orchestrator) generate(ctx context.Context, req *models.GenerationRequest, log logger.Logger) (*models.Artifact, error) {
	resolveStart := time.Now()
	resolved, err := o.resolver.Resolve(req)
	if err != nil {
		return nil, err
	}
	metrics.StageDuration.WithLabelValues("resolve").Observe(time.Since(resolveStart).Seconds())

	raw, err := o.cache.Read(ctx, resolved.Path)
	if err != nil {
		return nil, errors.NewTemplateResolutionError(string(req.DocumentType()), []string{resolved.Path})
	}

	composeStart := time.Now()
	var html string
	switch resolved.Kind {
	case template.KindDocument:
		html, err = o.composeDocument(req, raw, log)
	default:
		html, err = o.composeImage(req, resolved.Path, raw)
	}
	if err != nil {
		return nil, err
	}
	metrics.StageDuration.WithLabelValues("compose").Observe(time.Since(composeStart).Seconds())

	renderStart := time.Now()
	if err := o.pool.Acquire(ctx); err != nil {
		return nil, errors.NewRenderEngineError(err)
	}
	pdf, err := o.renderer.RenderPDF(ctx, html, render.OptionsFor(req.DocumentType(), resolved.Kind))
	o.pool.Release()
	if err != nil {
		return nil, err
	}
	metrics.StageDuration.WithLabelValues("render").Observe(time.Since(renderStart).Seconds())

	path := o.locations.ArtifactPath(req.CertificateID)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return nil, errors.NewArtifactWriteFailedError(path, err)
	}

	return &models.Artifact{
		CertificateID: req.CertificateID,
		Path:          path,
		FileURL:       o.fileURL(req.CertificateID),
		SizeBytes:     int64(len(pdf)),
	}, nil
}

// composeDocument runs the packaged-template path: repair, substitution,
// markup conversion.
func (o *Orchestrator) composeDocument(req *models.GenerationRequest, raw []byte, log logger.Logger) (string, error) {
	documentXML, err := docx.ReadDocumentXML(raw)
	if err != nil {
		return "", errors.NewTemplateRenderError(err.Error(), nil)
	}

	// Word-processor edits mangle delimiters in both historic spellings.
	for _, pair := range [][2]string{{"{{", "}}"}, {docx.OpenDelim, docx.CloseDelim}} {
		result := template.NewRepairer(pair[0], pair[1]).Repair(documentXML)
		if !result.Clean() {
			warn := errors.NewTemplateRepairWarning(fmt.Sprintf(
				"dropped %d spurious opens, %d orphan closes (delimiters %s %s)",
				result.SpuriousOpens, result.OrphanCloses, pair[0], pair[1]))
			log.Warn(warn.Message, map[string]interface{}{"details": warn.Details})
		}
		documentXML = result.Text
	}

	vocab := docx.Vocabulary(req, o.cfg.Document.CompanyName, time.Now())
	substituted, err := docx.Substitute(documentXML, vocab)
	if err != nil {
		return "", err
	}

	html, err := docx.Convert(substituted)
	if err != nil {
		return "", errors.NewTemplateRenderError(err.Error(), nil)
	}
	return html, nil
}

// composeImage runs the overlay path over a background image template.
func (o *Orchestrator) composeImage(req *models.GenerationRequest, path string, raw []byte) (string, error) {
	html, err := layout.Compose(layout.Document{
		Request:        req,
		Background:     raw,
		BackgroundMIME: mimeForPath(path),
		CompanyName:    o.cfg.Document.CompanyName,
		VerifyURL:      o.fileURL(req.CertificateID),
		GeneratedAt:    time.Now(),
	})
	if err != nil {
		return "", errors.NewTemplateRenderError(err.Error(), nil)
	}
	return html, nil
}

// deliver runs the post-generation side effects. Both are best-effort.
func (o *Orchestrator) deliver(ctx context.Context, req *models.GenerationRequest, artifact *models.Artifact, log logger.Logger) {
	messageID := ""
	if o.sender != nil && req.StudentData.Email != "" {
		pdf, err := os.ReadFile(artifact.Path)
		if err == nil {
			msg := mailer.BuildMessage(req, o.cfg.Email.From, pdf)
			err = o.sender.Send(ctx, msg)
		}
		if err != nil {
			warn := errors.NewEmailDeliveryWarning(req.StudentData.Email, err)
			metrics.DeliveryWarnings.WithLabelValues("email").Inc()
			log.WithError(warn).Warn("Email delivery failed", nil)
		} else {
			messageID = fmt.Sprintf("<%d.%s@certificate-service>", time.Now().UnixNano(), req.CertificateID)
		}
	}

	if o.callbacks != nil && req.CallbackURL != "" {
		err := o.callbacks.Notify(ctx, req.CallbackURL, callback.Notification{
			CertificateID: req.CertificateID,
			Status:        "sent",
			Metadata: callback.Metadata{
				MessageID:   messageID,
				GeneratedAt: time.Now().UTC().Format(time.RFC3339),
				Email:       req.StudentData.Email,
				FileURL:     artifact.FileURL,
			},
		})
		if err != nil {
			warn := errors.NewCallbackDeliveryWarning(req.CallbackURL, err)
			metrics.DeliveryWarnings.WithLabelValues("callback").Inc()
			log.WithError(warn).Warn("Callback delivery failed", nil)
		}
	}
}

func (o *Orchestrator) fileURL(certificateID string) string {
	base := strings.TrimSuffix(o.cfg.Server.ServiceURL, "/")
	if base == "" {
		return ""
	}
	return base + "/files/" + filepath.Base(certificateID) + ".pdf"
}

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
