package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/retailops/shelfbrief/internal/cache"
	"github.com/retailops/shelfbrief/internal/domain"
	"github.com/retailops/shelfbrief/internal/engine"
	"github.com/retailops/shelfbrief/internal/provider"
	"github.com/retailops/shelfbrief/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// BriefService produces executive briefs from live provider data. Caching and
// archiving are both best-effort: a failure in either logs a warning and the
// brief is still served.
type BriefService struct {
	snapshots provider.SnapshotProvider
	velocity  provider.VelocityProvider
	engine    *engine.Engine
	cache     cache.BriefCache
	archive   storage.ObjectStorage
}

func NewBriefService(
	snapshots provider.SnapshotProvider,
	velocity provider.VelocityProvider,
	eng *engine.Engine,
	cacheImpl cache.BriefCache,
	archive storage.ObjectStorage,
) *BriefService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopBriefCache()
	}
	return &BriefService{
		snapshots: snapshots,
		velocity:  velocity,
		engine:    eng,
		cache:     cacheImpl,
		archive:   archive,
	}
}

// GetBrief returns the executive brief for the given sales window, serving
// from cache when a fresh copy exists.
func (s *BriefService) GetBrief(ctx context.Context, windowDays int) (*domain.ExecutiveBrief, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	now := time.Now().UTC()

	if brief, ok, err := s.cache.GetBrief(ctx, windowDays, now); err == nil && ok {
		return brief, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("brief: cache get failed")
	}

	brief, err := s.computeBrief(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetBrief(ctx, windowDays, now, brief); err != nil {
		log.Warn().Err(err).Msg("brief: cache set failed")
	}

	s.archiveBrief(ctx, brief)

	return brief, nil
}

// GetFacts runs only the validation stage and returns the fact tables, for
// callers that want to inspect what the classifier would see.
func (s *BriefService) GetFacts(ctx context.Context, windowDays int) (*domain.FactSet, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	inventoryRows, velocityRows, err := s.fetchRows(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	return s.engine.BuildFacts(inventoryRows, velocityRows)
}

// Invalidate drops all cached briefs, forcing the next request to recompute.
func (s *BriefService) Invalidate(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

func (s *BriefService) computeBrief(ctx context.Context, windowDays int) (*domain.ExecutiveBrief, error) {
	inventoryRows, velocityRows, err := s.fetchRows(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	brief, err := s.engine.Analyze(inventoryRows, velocityRows)
	if err != nil {
		return nil, fmt.Errorf("brief analysis failed: %w", err)
	}

	return brief, nil
}

// fetchRows pulls the snapshot and velocity tables in parallel. Both must
// succeed; the engine treats a missing table as an error, not as empty data.
func (s *BriefService) fetchRows(ctx context.Context, windowDays int) ([]domain.InventoryRow, []domain.VelocityRow, error) {
	var (
		inventoryRows []domain.InventoryRow
		velocityRows  []domain.VelocityRow
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.snapshots.InventoryRows(gctx)
		if err != nil {
			return fmt.Errorf("fetch inventory snapshot: %w", err)
		}
		inventoryRows = rows
		return nil
	})

	g.Go(func() error {
		rows, err := s.velocity.VelocityRows(gctx, windowDays)
		if err != nil {
			return fmt.Errorf("fetch sales velocity: %w", err)
		}
		velocityRows = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return inventoryRows, velocityRows, nil
}

func (s *BriefService) archiveBrief(ctx context.Context, brief *domain.ExecutiveBrief) {
	if s.archive == nil {
		return
	}

	payload, err := json.Marshal(brief)
	if err != nil {
		log.Warn().Err(err).Msg("brief: archive encode failed")
		return
	}

	key := fmt.Sprintf("briefs/%s.json", brief.GeneratedAt.UTC().Format("2006-01-02T15-04-05"))
	if err := s.archive.UploadObject(ctx, key, payload); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("brief: archive upload failed")
	}
}
