package report

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// ChromeRenderer prints HTML with a headless Chrome started per call.
type ChromeRenderer struct {
	execPath string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewChromeRenderer uses the Chrome binary at execPath, or looks one up
// on PATH when execPath is empty.
func NewChromeRenderer(execPath string, logger *zap.Logger) *ChromeRenderer {
	return &ChromeRenderer{
		execPath: execPath,
		timeout:  60 * time.Second,
		logger:   logger,
	}
}

func (r *ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, r.timeout)
	defer cancelTimeout()

	start := time.Now()
	var buf []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print pdf: %w", err)
	}

	r.logger.Debug("pdf printed", zap.Int("bytes", len(buf)), zap.Duration("took", time.Since(start)))
	return buf, nil
}
