package pass

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var (
	ErrDownloadInProgress = errors.New("pass download already in progress")
	ErrCaptureFailed      = errors.New("pass generation failed")
)

type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Renderer runs capture and packaging for one credential.
type Renderer struct {
	capturer Capturer
	packager Packager
}

func NewRenderer(c Capturer, p Packager) *Renderer {
	return &Renderer{capturer: c, packager: p}
}

func (r *Renderer) Render(ctx context.Context, c Credential) (*Document, error) {
	t := c.Template
	img, err := r.capturer.Capture(ctx, Render(c), t.Page, t.Capture)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	data, err := r.packager.Package(img, t.Page)
	if err != nil {
		return nil, fmt.Errorf("package: %w", err)
	}
	return &Document{Filename: c.Filename(), ContentType: "application/pdf", Data: data}, nil
}

// Downloader belongs to a single form instance and refuses re-entrant downloads.
type Downloader struct {
	renderer   *Renderer
	log        *zerolog.Logger
	inProgress atomic.Bool
}

func NewDownloader(r *Renderer, log *zerolog.Logger) *Downloader {
	return &Downloader{renderer: r, log: log}
}

func (d *Downloader) InProgress() bool { return d.inProgress.Load() }

// Download renders the pass. Failures are logged and returned wrapped in ErrCaptureFailed
// so the caller can offer a retry.
func (d *Downloader) Download(ctx context.Context, c Credential) (*Document, error) {
	if !d.inProgress.CompareAndSwap(false, true) {
		return nil, ErrDownloadInProgress
	}
	defer d.inProgress.Store(false)

	doc, err := d.renderer.Render(ctx, c)
	if err != nil {
		d.log.Error().Err(err).
			Str("variant", string(c.Kind())).
			Str("filename", c.Filename()).
			Msg("PDF generation error")
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	return doc, nil
}
