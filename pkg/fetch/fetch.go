// Package fetch retrieves product pages for ranking extraction. Two engines
// are available: a plain HTTP client and a headless browser for pages that
// only render their ranking block with JavaScript.
package fetch

import "context"

// Result is a fetched page. Screenshot is only populated by engines that
// render the page.
type Result struct {
	HTML       string
	Screenshot []byte
}

// Fetcher retrieves a product page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}
