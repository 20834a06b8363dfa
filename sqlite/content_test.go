package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *harvest.User {
	return &harvest.User{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace"}
}

func newArticle(user *harvest.User, link string) *harvest.Article {
	return &harvest.Article{
		Envelope: harvest.NewEnvelope(harvest.PlatformArticle, user, map[string]any{
			"title": "On Engines",
			"body":  "text",
		}),
		Link:  link,
		Title: "On Engines",
	}
}

func newPost(user *harvest.User, link, text string) *harvest.Post {
	return &harvest.Post{
		Envelope: harvest.NewEnvelope(harvest.PlatformPost, user, map[string]any{"text": text}),
		Link:     link,
	}
}

func TestContentService_CreateContent(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a repository", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewContentService(setupTestDB(t))
		ctx := context.Background()
		user := testUser()

		repo := &harvest.Repository{
			Envelope: harvest.NewEnvelope(harvest.PlatformRepository, user, map[string]any{
				"files":    map[string]any{"main.go": "package main"},
				"metadata": map[string]any{"num_files": 1},
			}),
			Name: "engine",
			Link: "https://github.com/ada/engine",
		}
		require.NoError(t, svc.CreateContent(ctx, repo))

		link := repo.Link
		rec, ok := svc.FindContent(ctx, harvest.ContentFilter{Platform: harvest.PlatformRepository, Link: &link})
		require.True(t, ok)

		found, ok := rec.(*harvest.Repository)
		require.True(t, ok)
		assert.Equal(t, repo.ID, found.ID)
		assert.Equal(t, user.ID, found.AuthorID)
		assert.Equal(t, "Ada Lovelace", found.AuthorFullName)
		assert.Equal(t, harvest.PlatformRepository, found.Platform)
		assert.Equal(t, "engine", found.Name)
		assert.Equal(t, map[string]any{"main.go": "package main"}, found.Content["files"])
	})

	t.Run("returns ECONFLICT for duplicate article link", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewContentService(setupTestDB(t))
		ctx := context.Background()
		user := testUser()

		require.NoError(t, svc.CreateContent(ctx, newArticle(user, "https://medium.com/@ada/engines")))
		err := svc.CreateContent(ctx, newArticle(user, "https://medium.com/@ada/engines"))
		require.Error(t, err)
		assert.Equal(t, harvest.ECONFLICT, harvest.ErrorCode(err))
	})

	t.Run("returns EINVALID for article without title", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewContentService(setupTestDB(t))

		a := newArticle(testUser(), "https://medium.com/@ada/engines")
		a.Title = ""
		err := svc.CreateContent(context.Background(), a)
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("allows many posts with the same link", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewContentService(setupTestDB(t))
		ctx := context.Background()
		user := testUser()

		link := "https://www.linkedin.com/in/ada"
		require.NoError(t, svc.CreateContent(ctx, newPost(user, link, "one")))
		require.NoError(t, svc.CreateContent(ctx, newPost(user, link, "two")))

		found := svc.FindContents(ctx, harvest.ContentFilter{Platform: harvest.PlatformPost, Link: &link})
		assert.Len(t, found, 2)
	})
}

func TestContentService_CreateContents(t *testing.T) {
	t.Parallel()

	t.Run("empty batch succeeds", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewContentService(setupTestDB(t))

		require.NoError(t, svc.CreateContents(context.Background(), nil))
	})

	t.Run("stores a batch of posts", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewContentService(setupTestDB(t))
		ctx := context.Background()
		user := testUser()

		link := "https://www.linkedin.com/in/ada"
		err := svc.CreateContents(ctx, []harvest.Record{
			newPost(user, link, "one"),
			newPost(user, link, "two"),
			newPost(user, link, "three"),
		})
		require.NoError(t, err)

		counts, err := svc.CountContents(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, counts[harvest.PlatformPost])
		assert.Equal(t, 0, counts[harvest.PlatformArticle])
	})

	t.Run("rejects mixed batches", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewContentService(setupTestDB(t))
		user := testUser()

		err := svc.CreateContents(context.Background(), []harvest.Record{
			newPost(user, "", "one"),
			newArticle(user, "https://medium.com/@ada/engines"),
		})
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}

func TestContentService_FindContent(t *testing.T) {
	t.Parallel()

	t.Run("filters by author", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewContentService(setupTestDB(t))
		ctx := context.Background()
		ada, other := testUser(), testUser()

		require.NoError(t, svc.CreateContent(ctx, newArticle(ada, "https://medium.com/@ada/one")))
		require.NoError(t, svc.CreateContent(ctx, newArticle(other, "https://medium.com/@ada/two")))

		found := svc.FindContents(ctx, harvest.ContentFilter{Platform: harvest.PlatformArticle, AuthorID: &ada.ID})
		require.Len(t, found, 1)
		assert.Equal(t, "https://medium.com/@ada/one", found[0].(*harvest.Article).Link)
	})

	t.Run("reports absence", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewContentService(setupTestDB(t))

		link := "https://medium.com/@ada/missing"
		rec, ok := svc.FindContent(context.Background(), harvest.ContentFilter{Platform: harvest.PlatformArticle, Link: &link})
		assert.False(t, ok)
		assert.Nil(t, rec)
	})

	t.Run("drops documents with missing author identifier", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewContentService(db)
		ctx := context.Background()
		require.NoError(t, db.EnsureCollection(ctx, sqlite.ArticlesCollection))

		id := uuid.New()
		_, err := db.ExecContext(ctx,
			`INSERT INTO articles (id, doc) VALUES (?, '{"platform":"article","link":"https://x.test/a","title":"t"}')`,
			id[:])
		require.NoError(t, err)

		link := "https://x.test/a"
		_, ok := svc.FindContent(ctx, harvest.ContentFilter{Platform: harvest.PlatformArticle, Link: &link})
		assert.False(t, ok)
		assert.Empty(t, svc.FindContents(ctx, harvest.ContentFilter{Platform: harvest.PlatformArticle}))
	})
}
