package harvest_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_FullName(t *testing.T) {
	t.Parallel()

	u := &harvest.User{FirstName: "Mary Ann", LastName: "Evans"}
	assert.Equal(t, "Mary Ann Evans", u.FullName())
}

func TestUser_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, (&harvest.User{FirstName: "Ada", LastName: "Lovelace"}).Validate())

	err := (&harvest.User{LastName: "Lovelace"}).Validate()
	assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))

	err = (&harvest.User{FirstName: "Ada"}).Validate()
	assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
}

func TestPlatform_Valid(t *testing.T) {
	t.Parallel()

	for _, p := range harvest.Platforms() {
		assert.True(t, p.Valid(), p)
	}
	assert.False(t, harvest.Platform("tweet").Valid())
	assert.False(t, harvest.Platform("").Valid())
}

func TestNewEnvelope(t *testing.T) {
	t.Parallel()

	user := &harvest.User{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace"}
	env := harvest.NewEnvelope(harvest.PlatformPost, user, map[string]any{"content": "hi"})

	assert.NotEqual(t, uuid.Nil, env.ID)
	assert.Equal(t, harvest.PlatformPost, env.Platform)
	assert.Equal(t, user.ID, env.AuthorID)
	assert.Equal(t, "Ada Lovelace", env.AuthorFullName)
	assert.Equal(t, "hi", env.Content["content"])

	other := harvest.NewEnvelope(harvest.PlatformPost, user, nil)
	assert.NotEqual(t, env.ID, other.ID)
}

func TestRecord_Validate(t *testing.T) {
	t.Parallel()

	user := &harvest.User{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace"}

	tests := []struct {
		name    string
		rec     harvest.Record
		wantErr bool
	}{
		{
			name: "valid repository",
			rec: &harvest.Repository{
				Envelope: harvest.NewEnvelope(harvest.PlatformRepository, user, nil),
				Name:     "engine",
				Link:     "https://github.com/ada/engine",
			},
		},
		{
			name: "repository without name",
			rec: &harvest.Repository{
				Envelope: harvest.NewEnvelope(harvest.PlatformRepository, user, nil),
				Link:     "https://github.com/ada/engine",
			},
			wantErr: true,
		},
		{
			name: "repository with article envelope",
			rec: &harvest.Repository{
				Envelope: harvest.NewEnvelope(harvest.PlatformArticle, user, nil),
				Name:     "engine",
				Link:     "https://github.com/ada/engine",
			},
			wantErr: true,
		},
		{
			name: "valid article",
			rec: &harvest.Article{
				Envelope: harvest.NewEnvelope(harvest.PlatformArticle, user, nil),
				Link:     "https://medium.com/@ada/on-engines",
				Title:    "On Engines",
			},
		},
		{
			name: "article without title",
			rec: &harvest.Article{
				Envelope: harvest.NewEnvelope(harvest.PlatformArticle, user, nil),
				Link:     "https://medium.com/@ada/on-engines",
			},
			wantErr: true,
		},
		{
			name: "post without link or image",
			rec:  &harvest.Post{Envelope: harvest.NewEnvelope(harvest.PlatformPost, user, nil)},
		},
		{
			name:    "post without author",
			rec:     &harvest.Post{Envelope: harvest.NewEnvelope(harvest.PlatformPost, &harvest.User{}, nil)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.rec.Validate()
			if tt.wantErr {
				assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
				return
			}
			require.NoError(t, err)
		})
	}
}
