package harvest

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// Article acquisition falls back to an Extractor when the host-specific
// rules yield no body.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
