// internal/render/chrome.go
// Package render drives headless Chrome to rasterize composed HTML into PDF
// bytes.
package render

import (
	"context"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"certificate-service/internal/common/config"
	"certificate-service/internal/common/errors"
	"certificate-service/internal/common/logger"
	"certificate-service/internal/models"
	"certificate-service/internal/template"
)

// A4 paper size in inches, portrait. Landscape is expressed through the
// print call, not by swapping the dimensions.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69

	// documentMarginIn is 2cm expressed in inches, applied on all sides of
	// document-derived output.
	documentMarginIn = 0.79
)

// Options selects orientation and margins for one render. Print background
// is always on; the image-backed layouts are nothing but background.
type Options struct {
	Landscape bool
	MarginIn  float64
}

// OptionsFor derives print options from the document type and the resolved
// template kind: landscape only for the certificate image path, zero margins
// for image-backed layouts, 2cm all round for document-derived output.
func OptionsFor(docType models.DocumentType, kind template.Kind) Options {
	if kind == template.KindDocument {
		return Options{MarginIn: documentMarginIn}
	}
	return Options{Landscape: docType == models.DocumentTypeCertificate}
}

// Chrome renders HTML to PDF through a headless browser. Each call acquires
// a fresh allocator and browser context and releases both before returning.
type Chrome struct {
	execPath string
	timeout  time.Duration
	log      logger.Logger
}

func NewChrome(cfg config.RendererConfig, log logger.Logger) *Chrome {
	return &Chrome{
		execPath: cfg.ChromePath,
		timeout:  config.GetDuration(cfg.Timeout),
		log:      log,
	}
}

// scratchFile writes html to a fresh file in the process temp dir and
// returns its path. Render scratch never goes to the publicly served
// artifact directory.
func scratchFile(html string) (string, error) {
	tmp, err := os.CreateTemp("", "render-*.html")
	if err != nil {
		return "", err
	}
	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// RenderPDF writes html to a scratch file and prints it via file://
// navigation. Data URLs hit Chrome's URL length limits with embedded
// background images; the temp file path does not.
func (c *Chrome) RenderPDF(ctx context.Context, html string, opts Options) ([]byte, error) {
	tmpPath, err := scratchFile(html)
	if err != nil {
		return nil, errors.NewRenderEngineError(err)
	}
	defer os.Remove(tmpPath)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("headless", true),
	)
	if c.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	fileURL := "file://" + tmpPath
	c.log.Debug("Rendering document", map[string]interface{}{
		"file_url":  fileURL,
		"landscape": opts.Landscape,
	})

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(fileURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			pdf, _, printErr = page.PrintToPDF().
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithLandscape(opts.Landscape).
				WithMarginTop(opts.MarginIn).
				WithMarginBottom(opts.MarginIn).
				WithMarginLeft(opts.MarginIn).
				WithMarginRight(opts.MarginIn).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		c.log.WithError(err).Error("Headless render failed", map[string]interface{}{
			"file_url": fileURL,
		})
		return nil, errors.NewRenderEngineError(err)
	}

	return pdf, nil
}
