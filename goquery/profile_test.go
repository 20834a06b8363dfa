package goquery_test

import (
	"testing"

	"github.com/fwojciec/harvest/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostParser_ParsePosts(t *testing.T) {
	t.Parallel()

	t.Run("pairs posts with images by position", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div class="feed">
	<div class="update-components-text relative update-components-update-v2__commentary">
		Shipped   v2 🚀
		today!
	</div>
	<button class="update-components-image__image-link">
		<img src="https://media.licdn.com/img/a.jpg?e=123&t=abc#frag">
	</button>
	<div class="update-components-text relative update-components-update-v2__commentary">
		Hiring, apply now.
	</div>
</div>
</body>
</html>`

		posts, err := goquery.NewPostParser().ParsePosts(html)
		require.NoError(t, err)
		require.Len(t, posts, 2)

		assert.Equal(t, "Shipped v2 today!", posts[0].Text)
		assert.Equal(t, "https://media.licdn.com/img/a.jpg", posts[0].Image)
		assert.Equal(t, "Hiring, apply now.", posts[1].Text)
		assert.Empty(t, posts[1].Image)
	})

	t.Run("returns nothing for a page without posts", func(t *testing.T) {
		t.Parallel()

		posts, err := goquery.NewPostParser().ParsePosts(`<html><body><div>login</div></body></html>`)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}
