package harvest_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFullName(t *testing.T) {
	t.Parallel()

	t.Run("last word is the last name", func(t *testing.T) {
		t.Parallel()

		first, last, err := harvest.SplitFullName("  Mary Ann   Evans ")
		require.NoError(t, err)
		assert.Equal(t, "Mary Ann", first)
		assert.Equal(t, "Evans", last)
	})

	t.Run("requires two words", func(t *testing.T) {
		t.Parallel()

		_, _, err := harvest.SplitFullName("Ada")
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))

		_, _, err = harvest.SplitFullName("   ")
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Shipped v2 today!", harvest.CleanText("Shipped  v2 🚀\n today!"))
	assert.Equal(t, "a b, c.", harvest.CleanText("a#b, c."))
	assert.Empty(t, harvest.CleanText(" \t\n"))
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "On Engines", harvest.CollapseWhitespace("\n On\t  Engines \n"))
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "On Engines", harvest.CleanTitle("On Engines | by Ada Lovelace | Medium"))
	assert.Equal(t, "On Engines", harvest.CleanTitle(" On  Engines "))
	assert.Equal(t, "| Medium", harvest.CleanTitle("| Medium"))
}

func TestExtractURLs(t *testing.T) {
	t.Parallel()

	urls := harvest.ExtractURLs(`see https://github.com/ada/engine and <a href="http://medium.com/@ada/t">this</a>`)
	assert.Equal(t, []string{"https://github.com/ada/engine", "http://medium.com/@ada/t"}, urls)
	assert.Empty(t, harvest.ExtractURLs("no links here"))
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	t.Run("drops query, fragment and trailing slash", func(t *testing.T) {
		t.Parallel()

		got, err := harvest.NormalizeURL("HTTPS://GitHub.com/ada/engine/?tab=readme#top")
		require.NoError(t, err)
		assert.Equal(t, "https://github.com/ada/engine", got)
	})

	t.Run("keeps path case", func(t *testing.T) {
		t.Parallel()

		got, err := harvest.NormalizeURL("https://medium.com/@Ada/On-Engines")
		require.NoError(t, err)
		assert.Equal(t, "https://medium.com/@Ada/On-Engines", got)
	})

	t.Run("rejects relative links", func(t *testing.T) {
		t.Parallel()

		_, err := harvest.NormalizeURL("/ada/engine")
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}
