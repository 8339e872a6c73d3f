package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const renderTimeout = 60 * time.Second

// PDFService renders HTML into a PDF byte stream using headless Chrome.
// Implements RendererInterface.
type PDFService struct {
	chromePath string
}

// NewPDFService creates a new PDFService, detecting the Chrome executable.
func NewPDFService() *PDFService {
	return &PDFService{chromePath: detectChromePath()}
}

// Ensure PDFService implements RendererInterface
var _ RendererInterface = (*PDFService)(nil)

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// injectStylesheet inlines the stylesheet into the document head so the
// rendered file is self-contained.
func injectStylesheet(markup, stylesheet string) string {
	if stylesheet == "" {
		return markup
	}
	styleTag := "<style>\n" + stylesheet + "\n</style>"
	if idx := strings.Index(markup, "</head>"); idx >= 0 {
		return markup[:idx] + styleTag + markup[idx:]
	}
	return styleTag + markup
}

// RenderPDF writes the bound markup to a temporary file and prints it to PDF
// through Chrome. The file:// navigation keeps locally cached product images
// loadable by the browser.
func (s *PDFService) RenderPDF(ctx context.Context, markup, stylesheet string) ([]byte, error) {
	htmlFile, err := os.CreateTemp("", "catalogo-*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp html file: %w", err)
	}
	defer os.Remove(htmlFile.Name())

	if _, err := htmlFile.WriteString(injectStylesheet(markup, stylesheet)); err != nil {
		htmlFile.Close()
		return nil, fmt.Errorf("failed to write temp html file: %w", err)
	}
	if err := htmlFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp html file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.Flag("enable-print-preview", true),
	)
	if s.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := "file://" + htmlFile.Name()

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 DPI
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		// Wait for fonts and images to load before printing
		chromedp.Evaluate(`
			(function() {
				return Promise.all([
					document.fonts.ready,
					Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
						return new Promise((resolve) => {
							if (img.complete) {
								resolve();
								return;
							}
							const timeout = setTimeout(() => resolve(), 5000);
							img.onload = () => { clearTimeout(timeout); resolve(); };
							img.onerror = () => { clearTimeout(timeout); resolve(); };
						});
					}))
				]);
			})();
		`, nil),
		chromedp.Sleep(500*time.Millisecond), // Final wait for layout
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 8.27" x 11.69". Page breaks are handled by the CSS.
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0). // No margins, padding is in CSS
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
