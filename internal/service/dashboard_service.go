package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pa-ews-api/internal/engine"
	"github.com/noah-isme/pa-ews-api/internal/models"
	appErrors "github.com/noah-isme/pa-ews-api/pkg/errors"
)

// DashboardService composes the chart-feeding views over the merged
// snapshot: weekly band stacks, midterm/final scatter pairs and
// per-subject week pivots.
type DashboardService struct {
	scores     scoreReader
	roster     rosterReader
	thresholds thresholdProvider
	cache      *CacheService
	logger     *zap.Logger
	cacheTTL   time.Duration
}

// NewDashboardService constructs the service.
func NewDashboardService(scores scoreReader, roster rosterReader, thresholds thresholdProvider, cache *CacheService, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		scores:     scores,
		roster:     roster,
		thresholds: thresholds,
		cache:      cache,
		logger:     logger,
		cacheTTL:   cacheTTL,
	}
}

// Weekly returns week-indexed band counts over the filtered record set.
func (s *DashboardService) Weekly(ctx context.Context, filter models.ScoreFilter) ([]models.WeeklyBandCount, bool, error) {
	snap, err := loadSnapshot(ctx, s.scores, s.roster, s.thresholds)
	if err != nil {
		return nil, false, err
	}

	key := fmt.Sprintf("report:dash:weekly:v%d:%s:%s:%d:%s",
		snap.Config.Version, filter.Program, filter.Subject, filter.Week, filter.Band)
	var cached []models.WeeklyBandCount
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	counts := engine.WeeklyBandCounts(engine.Filter(snap.Merged, filter))
	s.persist(ctx, key, counts)
	return counts, false, nil
}

// Scatter returns per-student midterm/final mean pairs.
func (s *DashboardService) Scatter(ctx context.Context, program string) ([]models.ScatterPair, bool, error) {
	snap, err := loadSnapshot(ctx, s.scores, s.roster, s.thresholds)
	if err != nil {
		return nil, false, err
	}

	key := fmt.Sprintf("report:dash:scatter:v%d:%s", snap.Config.Version, program)
	var cached []models.ScatterPair
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	pairs := engine.MidFinalPairs(engine.Filter(snap.Merged, models.ScoreFilter{Program: program}))
	s.persist(ctx, key, pairs)
	return pairs, false, nil
}

// Pivot returns one subject's weekly scores as fixed 18-cell rows.
func (s *DashboardService) Pivot(ctx context.Context, rawSubject string) ([]models.PivotRow, bool, error) {
	subject, ok := models.ParseSubject(rawSubject)
	if !ok {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown subject %q", rawSubject))
	}

	snap, err := loadSnapshot(ctx, s.scores, s.roster, s.thresholds)
	if err != nil {
		return nil, false, err
	}

	key := fmt.Sprintf("report:dash:pivot:v%d:%s", snap.Config.Version, subject)
	var cached []models.PivotRow
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	rows := engine.SubjectPivot(snap.Merged, subject)
	s.persist(ctx, key, rows)
	return rows, false, nil
}

// Merged exposes the filtered analytic table for the raw scores view.
func (s *DashboardService) Merged(ctx context.Context, filter models.ScoreFilter) ([]models.ScoredRecord, error) {
	snap, err := loadSnapshot(ctx, s.scores, s.roster, s.thresholds)
	if err != nil {
		return nil, err
	}
	return engine.Filter(snap.Merged, filter), nil
}

func (s *DashboardService) persist(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
