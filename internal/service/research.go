package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"golang.org/x/sync/errgroup"

	"github.com/zoohub/zookeeper-hub/internal/core"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
)

const (
	researchSnapshotKey = "zoohub:research:snapshot"
	defaultSnapshotTTL  = 30 * time.Second
	snapshotSampleSize  = 200
)

// ErrEmptyQuery is returned when a research query has no expression.
var ErrEmptyQuery = errors.New("query expression is required")

// ErrBadQuery is returned when an expression does not compile or cannot
// be evaluated against the snapshot.
var ErrBadQuery = errors.New("invalid query expression")

// ResearchServiceOptions groups dependencies for ResearchService.
type ResearchServiceOptions struct {
	Animals  core.AnimalRepository
	Feedings core.FeedingLogRepository
	Medicals core.MedicalLogRepository
	Cache    core.CacheRepository
	// SnapshotTTL bounds how stale a cached snapshot may get. Default 30s.
	SnapshotTTL time.Duration
}

// ResearchService assembles read-only observation snapshots for the
// research page and answers ad-hoc queries against them.
type ResearchService struct {
	animals  core.AnimalRepository
	feedings core.FeedingLogRepository
	medicals core.MedicalLogRepository
	cache    core.CacheRepository
	ttl      time.Duration
}

// ResearchSnapshot is the aggregate served to researchers. It is built
// from bounded samples of the newest records, not full table scans.
type ResearchSnapshot struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	AnimalCount   int                 `json:"animal_count"`
	SpeciesCounts map[string]int      `json:"species_counts"`
	Animals       []*model.Animal     `json:"animals"`
	FeedingLogs   []*model.FeedingLog `json:"feeding_logs"`
	MedicalLogs   []*model.MedicalLog `json:"medical_logs"`
}

// NewResearchService constructs a new ResearchService.
func NewResearchService(opts ResearchServiceOptions) *ResearchService {
	ttl := opts.SnapshotTTL
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &ResearchService{
		animals:  opts.Animals,
		feedings: opts.Feedings,
		medicals: opts.Medicals,
		cache:    opts.Cache,
		ttl:      ttl,
	}
}

// Snapshot returns the current research snapshot, serving a cached copy
// when one is fresh enough. Cache failures degrade to a rebuild.
func (s *ResearchService) Snapshot(ctx context.Context) (*ResearchSnapshot, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, researchSnapshotKey); err == nil && cached != nil {
			var snap ResearchSnapshot
			if jsonErr := json.Unmarshal(cached, &snap); jsonErr == nil {
				return &snap, nil
			}
		}
	}

	snap, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, jsonErr := json.Marshal(snap); jsonErr == nil {
			// A failed Set only costs the next reader a rebuild.
			_ = s.cache.Set(ctx, researchSnapshotKey, data, s.ttl)
		}
	}
	return snap, nil
}

// Query evaluates a JMESPath expression against the current snapshot.
func (s *ResearchService) Query(ctx context.Context, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyQuery
	}

	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadQuery, err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON so the expression sees the document shape
	// the API publishes, not Go structs.
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	result, err := compiled.Search(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadQuery, err)
	}
	return result, nil
}

// build assembles a fresh snapshot. The three collections load
// concurrently; the first failure cancels the others.
func (s *ResearchService) build(ctx context.Context) (*ResearchSnapshot, error) {
	var (
		animals  []*model.Animal
		feedings []*model.FeedingLog
		medicals []*model.MedicalLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if animals, err = s.animals.List(gctx, model.AnimalsListOptions{Limit: snapshotSampleSize}); err != nil {
			return fmt.Errorf("list animals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if feedings, err = s.feedings.List(gctx, model.FeedingLogsListOptions{Limit: snapshotSampleSize}); err != nil {
			return fmt.Errorf("list feeding logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if medicals, err = s.medicals.List(gctx, model.MedicalLogsListOptions{Limit: snapshotSampleSize}); err != nil {
			return fmt.Errorf("list medical logs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	species := make(map[string]int)
	for _, a := range animals {
		species[a.Species]++
	}

	return &ResearchSnapshot{
		GeneratedAt:   time.Now().UTC(),
		AnimalCount:   len(animals),
		SpeciesCounts: species,
		Animals:       animals,
		FeedingLogs:   feedings,
		MedicalLogs:   medicals,
	}, nil
}
