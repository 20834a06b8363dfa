package mock

import (
	"context"

	"github.com/fwojciec/harvest"
	"github.com/google/uuid"
)

var _ harvest.ContentService = (*ContentService)(nil)

// ContentService is a mock implementation of harvest.ContentService.
type ContentService struct {
	CreateContentFn  func(ctx context.Context, rec harvest.Record) error
	CreateContentsFn func(ctx context.Context, recs []harvest.Record) error
	FindContentFn    func(ctx context.Context, filter harvest.ContentFilter) (harvest.Record, bool)
	FindContentsFn   func(ctx context.Context, filter harvest.ContentFilter) []harvest.Record
	CountContentsFn  func(ctx context.Context, authorID uuid.UUID) (map[harvest.Platform]int, error)
}

func (s *ContentService) CreateContent(ctx context.Context, rec harvest.Record) error {
	return s.CreateContentFn(ctx, rec)
}

func (s *ContentService) CreateContents(ctx context.Context, recs []harvest.Record) error {
	return s.CreateContentsFn(ctx, recs)
}

func (s *ContentService) FindContent(ctx context.Context, filter harvest.ContentFilter) (harvest.Record, bool) {
	return s.FindContentFn(ctx, filter)
}

func (s *ContentService) FindContents(ctx context.Context, filter harvest.ContentFilter) []harvest.Record {
	return s.FindContentsFn(ctx, filter)
}

func (s *ContentService) CountContents(ctx context.Context, authorID uuid.UUID) (map[harvest.Platform]int, error) {
	return s.CountContentsFn(ctx, authorID)
}
