package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// rankSelector is the ranking widget Amazon renders client-side on some
// product pages. The browser waits for it before capturing the page.
const rankSelector = "#zg-rank-ctnr"

// BrowserFetcher renders pages in headless Chrome. It waits for the
// ranking widget and captures a screenshot alongside the page HTML.
type BrowserFetcher struct {
	timeout   time.Duration
	userAgent string
}

var _ Fetcher = (*BrowserFetcher)(nil)

// NewBrowserFetcher returns a browser-backed fetcher with the given
// navigation timeout.
func NewBrowserFetcher(timeout time.Duration, userAgent string) *BrowserFetcher {
	return &BrowserFetcher{timeout: timeout, userAgent: userAgent}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
	)
	if f.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	var html string
	var screenshot []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(rankSelector, chromedp.ByQuery),
		chromedp.CaptureScreenshot(&screenshot),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		// a screenshot captured before the failure is still useful for
		// debugging, hand it back with the error
		if len(screenshot) > 0 {
			return &Result{Screenshot: screenshot}, fmt.Errorf("browser fetch of %s failed: %w", url, err)
		}
		return nil, fmt.Errorf("browser fetch of %s failed: %w", url, err)
	}

	return &Result{HTML: html, Screenshot: screenshot}, nil
}
