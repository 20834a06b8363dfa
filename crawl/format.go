package crawl

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatTally renders a tally as one "source succeeded/attempted" pair per
// source followed by the totals.
func FormatTally(t *Tally) string {
	var b strings.Builder
	for _, name := range t.Sources() {
		c := t.Source(name)
		fmt.Fprintf(&b, "%s %d/%d, ", name, c.Succeeded, c.Attempted)
	}
	fmt.Fprintf(&b, "total %d/%d", t.Succeeded(), t.Attempted())
	return b.String()
}
