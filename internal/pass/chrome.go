package pass

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/chromedp/chromedp"
)

// ChromeCapturer screenshots the HTML pass in headless Chrome.
type ChromeCapturer struct {
	allocCtx context.Context
	cancel   context.CancelFunc
}

func NewChromeCapturer(opts ...chromedp.ExecAllocatorOption) *ChromeCapturer {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], opts...)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	return &ChromeCapturer{allocCtx: allocCtx, cancel: cancel}
}

func (c *ChromeCapturer) Close() { c.cancel() }

func (c *ChromeCapturer) Capture(ctx context.Context, v View, page Page, opts CaptureOptions) ([]byte, error) {
	doc, err := CaptureDocument(v, opts)
	if err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	var buf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("data:text/html;base64,"+base64.StdEncoding.EncodeToString(doc)),
		chromedp.WaitVisible(`#pass[data-ready="true"]`, chromedp.ByQuery),
		chromedp.ScreenshotScale(`#pass`, scale, &buf, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome capture: %w", err)
	}
	return buf, nil
}
