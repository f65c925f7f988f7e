package service

import (
	"context"
	"errors"
	"time"

	"github.com/zoohub/zookeeper-hub/internal/core"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
)

// FeedingServiceOptions groups dependencies for FeedingService.
type FeedingServiceOptions struct {
	Feedings core.FeedingLogRepository
}

// FeedingService orchestrates feeding log recording and review. Feeding
// logs reference animals by free-text name, so no referential check is
// made against the animal collection.
type FeedingService struct {
	feedings core.FeedingLogRepository
}

// NewFeedingService constructs a new FeedingService.
func NewFeedingService(opts FeedingServiceOptions) *FeedingService {
	return &FeedingService{feedings: opts.Feedings}
}

// Create validates and records a feeding log, stamped with the keeper who
// recorded it. A zero feeding time defaults to now.
func (s *FeedingService) Create(ctx context.Context, req *model.CreateFeedingLogRequest, keeperID string) (*model.FeedingLog, error) {
	if keeperID == "" {
		return nil, errors.New("keeper ID is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.FeedingTime.IsZero() {
		req.FeedingTime = time.Now().UTC()
	}
	return s.feedings.Create(ctx, req, keeperID)
}

// List returns feeding logs, newest feeding first.
func (s *FeedingService) List(ctx context.Context, opts model.FeedingLogsListOptions) ([]*model.FeedingLog, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.feedings.List(ctx, opts)
}
