package ranking

import (
	"regexp"
	"strings"
)

// Placeholder fills ranking columns when extraction fails or comes up short.
const Placeholder = "-"

// Markers that bound the best-seller ranking block on an Amazon product page.
// Start markers are tried in order; page copy varies between layouts.
var (
	startMarkers = []string{
		"Amazon 売れ筋ランキング:",
		"売れ筋ランキング:",
		"Amazon 売れ筋ランキング",
	}
	endMarker = "カスタマーレビュー"
)

var (
	tagRgx        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRgx = regexp.MustCompile(`\s+`)
	// "see the best-seller list" link text for each store, optionally parenthesized
	// in either ASCII or fullwidth parens
	noiseRgx      = regexp.MustCompile(`[（(]?(?:本|Kindleストア|Audible)の売れ筋ランキングを見る[）)]?`)
	emptyParenRgx = regexp.MustCompile(`\(\s*\)`)

	// entryRgx matches a "category - rank" pair, e.g. "コンピュータ・IT - 1,234位".
	// Both ASCII hyphen and fullwidth minus appear in the wild.
	entryRgx = regexp.MustCompile(`([^\-:：]{2,80}?)\s*[-−]\s*(\d{1,3}(?:,\d{3})*位)`)
)

// ExtractBlock returns the raw HTML slice between the ranking start marker and
// the customer-review section. The second return is false when no marker is
// present on the page.
func ExtractBlock(html string) (string, bool) {
	start := -1
	for _, marker := range startMarkers {
		if idx := strings.Index(html, marker); idx != -1 {
			start = idx
			break
		}
	}
	if start == -1 {
		return "", false
	}

	end := strings.Index(html[start:], endMarker)
	if end == -1 {
		return html[start:], true
	}
	return html[start : start+end], true
}

// Entries parses category/rank pairs out of a ranking block. The block may
// still contain HTML tags; they are stripped first. Entries whose category
// text is navigation noise are dropped. Returns nil when nothing matches.
func Entries(block string) []string {
	text := tagRgx.ReplaceAllString(block, "")
	text = whitespaceRgx.ReplaceAllString(text, " ")
	text = noiseRgx.ReplaceAllString(text, "")

	matches := entryRgx.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var entries []string
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		rank := strings.TrimSpace(m[2])
		if strings.Contains(name, "Amazon") || strings.Contains(name, "見る") {
			continue
		}
		entry := emptyParenRgx.ReplaceAllString(rank+name, "")
		entries = append(entries, entry)
	}
	return entries
}

// Normalize pads or truncates entries to exactly width columns so every row
// appended to the sheet has a fixed shape.
func Normalize(entries []string, width int) []string {
	out := make([]string, 0, width)
	for i := 0; i < width && i < len(entries); i++ {
		out = append(out, entries[i])
	}
	for len(out) < width {
		out = append(out, Placeholder)
	}
	return out
}

// Extract runs the full pipeline on a page: locate the ranking block, parse
// its entries and normalize to width columns. Extraction never fails; a page
// without a ranking block yields all-placeholder columns.
func Extract(html string, width int) []string {
	block, ok := ExtractBlock(html)
	if !ok {
		return Normalize(nil, width)
	}
	return Normalize(Entries(block), width)
}
