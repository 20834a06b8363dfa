package sqlite

import (
	"context"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ harvest.ContentService = (*ContentService)(nil)

// Content collections. Repositories and articles are unique by link; a
// profile yields many posts sharing one link, so posts are only indexed.
var (
	RepositoriesCollection = CollectionSpec{
		Name:    "repositories",
		Unique:  [][]string{{"link"}},
		Indexes: [][]string{{"author_id." + binaryPayload}},
	}
	ArticlesCollection = CollectionSpec{
		Name:    "articles",
		Unique:  [][]string{{"link"}},
		Indexes: [][]string{{"author_id." + binaryPayload}},
	}
	PostsCollection = CollectionSpec{
		Name:    "posts",
		Indexes: [][]string{{"link"}, {"author_id." + binaryPayload}},
	}
)

func encodeEnvelope(e *harvest.Envelope) map[string]any {
	return map[string]any{
		"platform":         string(e.Platform),
		"author_id":        e.AuthorID,
		"author_full_name": e.AuthorFullName,
		"content":          e.Content,
	}
}

func decodeEnvelope(id uuid.UUID, doc map[string]any) (harvest.Envelope, error) {
	authorID, err := uuidField(doc, "author_id")
	if err != nil {
		return harvest.Envelope{}, err
	}
	return harvest.Envelope{
		ID:             id,
		Platform:       harvest.Platform(stringField(doc, "platform")),
		AuthorID:       authorID,
		AuthorFullName: stringField(doc, "author_full_name"),
		Content:        mapField(doc, "content"),
	}, nil
}

type repositoryCodec struct{}

func (repositoryCodec) Encode(r *harvest.Repository) (uuid.UUID, map[string]any, error) {
	if err := r.Validate(); err != nil {
		return uuid.Nil, nil, err
	}
	doc := encodeEnvelope(&r.Envelope)
	doc["name"] = r.Name
	doc["link"] = r.Link
	return r.ID, doc, nil
}

func (repositoryCodec) Decode(id uuid.UUID, doc map[string]any) (*harvest.Repository, error) {
	env, err := decodeEnvelope(id, doc)
	if err != nil {
		return nil, err
	}
	return &harvest.Repository{
		Envelope: env,
		Name:     stringField(doc, "name"),
		Link:     stringField(doc, "link"),
	}, nil
}

type articleCodec struct{}

func (articleCodec) Encode(a *harvest.Article) (uuid.UUID, map[string]any, error) {
	if err := a.Validate(); err != nil {
		return uuid.Nil, nil, err
	}
	doc := encodeEnvelope(&a.Envelope)
	doc["link"] = a.Link
	doc["title"] = a.Title
	return a.ID, doc, nil
}

func (articleCodec) Decode(id uuid.UUID, doc map[string]any) (*harvest.Article, error) {
	env, err := decodeEnvelope(id, doc)
	if err != nil {
		return nil, err
	}
	return &harvest.Article{
		Envelope: env,
		Link:     stringField(doc, "link"),
		Title:    stringField(doc, "title"),
	}, nil
}

type postCodec struct{}

func (postCodec) Encode(p *harvest.Post) (uuid.UUID, map[string]any, error) {
	if err := p.Validate(); err != nil {
		return uuid.Nil, nil, err
	}
	doc := encodeEnvelope(&p.Envelope)
	if p.Link != "" {
		doc["link"] = p.Link
	}
	if p.Image != "" {
		doc["image"] = p.Image
	}
	return p.ID, doc, nil
}

func (postCodec) Decode(id uuid.UUID, doc map[string]any) (*harvest.Post, error) {
	env, err := decodeEnvelope(id, doc)
	if err != nil {
		return nil, err
	}
	return &harvest.Post{
		Envelope: env,
		Link:     stringField(doc, "link"),
		Image:    stringField(doc, "image"),
	}, nil
}

// ContentService implements harvest.ContentService using SQLite. Each
// platform is stored in its own collection.
type ContentService struct {
	repositories *Collection[*harvest.Repository]
	articles     *Collection[*harvest.Article]
	posts        *Collection[*harvest.Post]
}

// NewContentService creates a new ContentService.
func NewContentService(db *DB) *ContentService {
	return &ContentService{
		repositories: NewCollection[*harvest.Repository](db, RepositoriesCollection, repositoryCodec{}),
		articles:     NewCollection[*harvest.Article](db, ArticlesCollection, articleCodec{}),
		posts:        NewCollection[*harvest.Post](db, PostsCollection, postCodec{}),
	}
}

// CreateContent persists a single record.
func (s *ContentService) CreateContent(ctx context.Context, rec harvest.Record) error {
	switch r := rec.(type) {
	case *harvest.Repository:
		return s.repositories.Save(ctx, r)
	case *harvest.Article:
		return s.articles.Save(ctx, r)
	case *harvest.Post:
		return s.posts.Save(ctx, r)
	default:
		return harvest.Errorf(harvest.EINVALID, "unsupported record type %T", rec)
	}
}

// CreateContents persists a batch of records of one platform atomically.
func (s *ContentService) CreateContents(ctx context.Context, recs []harvest.Record) error {
	if len(recs) == 0 {
		return nil
	}
	switch recs[0].(type) {
	case *harvest.Repository:
		return bulkSave(ctx, s.repositories, recs)
	case *harvest.Article:
		return bulkSave(ctx, s.articles, recs)
	case *harvest.Post:
		return bulkSave(ctx, s.posts, recs)
	default:
		return harvest.Errorf(harvest.EINVALID, "unsupported record type %T", recs[0])
	}
}

func bulkSave[T harvest.Record](ctx context.Context, c *Collection[T], recs []harvest.Record) error {
	vs := make([]T, len(recs))
	for i, rec := range recs {
		v, ok := rec.(T)
		if !ok {
			return harvest.Errorf(harvest.EINVALID, "batch mixes record types: %T in %s batch", rec, c.Name())
		}
		vs[i] = v
	}
	return c.BulkSave(ctx, vs)
}

// FindContent returns the first record matching the filter.
func (s *ContentService) FindContent(ctx context.Context, filter harvest.ContentFilter) (harvest.Record, bool) {
	f := contentFilter(filter)
	switch filter.Platform {
	case harvest.PlatformRepository:
		if r, ok := s.repositories.FindOne(ctx, f); ok {
			return r, true
		}
	case harvest.PlatformArticle:
		if a, ok := s.articles.FindOne(ctx, f); ok {
			return a, true
		}
	case harvest.PlatformPost:
		if p, ok := s.posts.FindOne(ctx, f); ok {
			return p, true
		}
	}
	return nil, false
}

// FindContents returns all records matching the filter.
func (s *ContentService) FindContents(ctx context.Context, filter harvest.ContentFilter) []harvest.Record {
	f := contentFilter(filter)
	switch filter.Platform {
	case harvest.PlatformRepository:
		return records(s.repositories.FindMany(ctx, f))
	case harvest.PlatformArticle:
		return records(s.articles.FindMany(ctx, f))
	case harvest.PlatformPost:
		return records(s.posts.FindMany(ctx, f))
	}
	return []harvest.Record{}
}

// CountContents returns the number of records per platform authored by the
// given user.
func (s *ContentService) CountContents(ctx context.Context, authorID uuid.UUID) (map[harvest.Platform]int, error) {
	f := Filter{"author_id": authorID}
	counts := make(map[harvest.Platform]int, 3)

	n, err := s.repositories.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	counts[harvest.PlatformRepository] = n

	if n, err = s.articles.Count(ctx, f); err != nil {
		return nil, err
	}
	counts[harvest.PlatformArticle] = n

	if n, err = s.posts.Count(ctx, f); err != nil {
		return nil, err
	}
	counts[harvest.PlatformPost] = n

	return counts, nil
}

func contentFilter(filter harvest.ContentFilter) Filter {
	f := Filter{}
	if filter.AuthorID != nil {
		f["author_id"] = *filter.AuthorID
	}
	if filter.Link != nil {
		f["link"] = *filter.Link
	}
	return f
}

func records[T harvest.Record](vs []T) []harvest.Record {
	out := make([]harvest.Record, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
