package harvest

import (
	"context"

	"github.com/google/uuid"
)

// Platform tags the variant of a content record.
type Platform string

// Platform constants. The set is closed.
const (
	PlatformRepository Platform = "repository"
	PlatformArticle    Platform = "article"
	PlatformPost       Platform = "post"
)

// Platforms lists every platform in a stable order.
func Platforms() []Platform {
	return []Platform{PlatformRepository, PlatformArticle, PlatformPost}
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformRepository, PlatformArticle, PlatformPost:
		return true
	}
	return false
}

// Envelope holds the fields shared by every content record. Content is an
// opaque structured payload whose shape depends on the platform.
type Envelope struct {
	ID             uuid.UUID      `json:"id"`
	Platform       Platform       `json:"platform"`
	AuthorID       uuid.UUID      `json:"authorId"`
	AuthorFullName string         `json:"authorFullName"`
	Content        map[string]any `json:"content"`
}

// Record is a content record of one of the closed set of variants:
// *Repository, *Article or *Post.
type Record interface {
	RecordEnvelope() *Envelope
	Validate() error
	isRecord()
}

// NewEnvelope returns an envelope for a new record authored by user.
func NewEnvelope(platform Platform, user *User, content map[string]any) Envelope {
	return Envelope{
		ID:             uuid.New(),
		Platform:       platform,
		AuthorID:       user.ID,
		AuthorFullName: user.FullName(),
		Content:        content,
	}
}

func (e *Envelope) validate(want Platform) error {
	if e.ID == uuid.Nil {
		return Errorf(EINVALID, "%s ID required", want)
	}
	if e.Platform != want {
		return Errorf(EINVALID, "%s has platform %q", want, e.Platform)
	}
	if e.AuthorID == uuid.Nil {
		return Errorf(EINVALID, "%s author ID required", want)
	}
	return nil
}

// Repository is a code repository snapshot. Content maps "files" to a
// path-to-text mapping and "metadata" to a summary of the tree.
type Repository struct {
	Envelope
	Name string `json:"name"`
	Link string `json:"link"`
}

// RecordEnvelope returns the shared record fields.
func (r *Repository) RecordEnvelope() *Envelope { return &r.Envelope }

// Validate returns an error if the repository contains invalid fields.
func (r *Repository) Validate() error {
	if err := r.Envelope.validate(PlatformRepository); err != nil {
		return err
	}
	if r.Name == "" {
		return Errorf(EINVALID, "repository name required")
	}
	if r.Link == "" {
		return Errorf(EINVALID, "repository link required")
	}
	return nil
}

func (*Repository) isRecord() {}

// Article is a long-form article. Title is never empty.
type Article struct {
	Envelope
	Link  string `json:"link"`
	Title string `json:"title"`
}

// RecordEnvelope returns the shared record fields.
func (a *Article) RecordEnvelope() *Envelope { return &a.Envelope }

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if err := a.Envelope.validate(PlatformArticle); err != nil {
		return err
	}
	if a.Link == "" {
		return Errorf(EINVALID, "article link required")
	}
	if a.Title == "" {
		return Errorf(EINVALID, "article title required")
	}
	return nil
}

func (*Article) isRecord() {}

// Post is a social post. Link and Image are optional.
type Post struct {
	Envelope
	Link  string `json:"link,omitempty"`
	Image string `json:"image,omitempty"`
}

// RecordEnvelope returns the shared record fields.
func (p *Post) RecordEnvelope() *Envelope { return &p.Envelope }

// Validate returns an error if the post contains invalid fields.
func (p *Post) Validate() error {
	return p.Envelope.validate(PlatformPost)
}

func (*Post) isRecord() {}

// ContentFilter represents a filter for content lookups. Platform is
// required; the remaining fields narrow the match when set.
type ContentFilter struct {
	Platform Platform   `json:"platform"`
	AuthorID *uuid.UUID `json:"authorId"`
	Link     *string    `json:"link"`
}

// ContentService represents a service for persisting content records.
// Records are immutable once created; there is no update or delete path.
type ContentService interface {
	// CreateContent persists a single record.
	// Returns ECONFLICT if a record with the same natural key exists.
	CreateContent(ctx context.Context, rec Record) error

	// CreateContents persists a batch of records of one platform in one
	// operation. An empty batch succeeds.
	CreateContents(ctx context.Context, recs []Record) error

	// FindContent returns the first record matching the filter. Lookup
	// failures are logged and reported as not found.
	FindContent(ctx context.Context, filter ContentFilter) (Record, bool)

	// FindContents returns all records matching the filter, or an empty
	// slice on lookup failure.
	FindContents(ctx context.Context, filter ContentFilter) []Record

	// CountContents returns the number of records per platform authored by
	// the given user.
	CountContents(ctx context.Context, authorID uuid.UUID) (map[Platform]int, error)
}
