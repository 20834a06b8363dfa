package harvest

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// SplitFullName splits a full name into first and last name. The last
// whitespace-separated word is the last name; everything before it is the
// first name. Returns EINVALID if fewer than two words are given.
func SplitFullName(fullName string) (firstName, lastName string, err error) {
	parts := strings.Fields(fullName)
	if len(parts) < 2 {
		return "", "", Errorf(EINVALID, "full name must include first and last name: %q", fullName)
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1], nil
}

var (
	specialCharsRe = regexp.MustCompile(`[^\w\s.,!?]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	urlRe          = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// CleanText replaces characters other than word characters, whitespace and
// basic punctuation with spaces and collapses runs of whitespace.
func CleanText(text string) string {
	text = specialCharsRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CollapseWhitespace collapses runs of whitespace into single spaces.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ExtractURLs returns every http(s) URL found in text, in order.
func ExtractURLs(text string) []string {
	return urlRe.FindAllString(text, -1)
}

// NormalizeURL canonicalizes a link for use as a natural key: the query and
// fragment are dropped, scheme and host are lowercased and a trailing slash
// is removed.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", Errorf(EINVALID, "URL %q must be absolute", rawURL)
	}
	u.RawQuery = ""
	u.ForceQuery = false
	return purell.NormalizeURL(u,
		purell.FlagsSafe|
			purell.FlagRemoveFragment|
			purell.FlagRemoveTrailingSlash|
			purell.FlagRemoveDuplicateSlashes,
	), nil
}

// CleanTitle collapses whitespace in a page title and drops any trailing
// " | " separated segments such as author or site names.
func CleanTitle(title string) string {
	title = CollapseWhitespace(title)
	if i := strings.Index(title, " | "); i > 0 {
		title = title[:i]
	}
	return title
}
