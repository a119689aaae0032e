package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pa-ews-api/internal/engine"
	"github.com/noah-isme/pa-ews-api/internal/models"
)

// RiskServiceConfig tunes detector run defaults and report caching.
type RiskServiceConfig struct {
	CacheTTL        time.Duration
	RedRunLength    int
	YellowRunLength int
}

// RiskService runs the three detectors over the current snapshot.
// Reports are cached under config-version-aware keys, so a threshold
// update naturally misses the cache; uploads invalidate explicitly.
type RiskService struct {
	scores     scoreReader
	roster     rosterReader
	thresholds thresholdProvider
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        RiskServiceConfig
}

// NewRiskService constructs the service.
func NewRiskService(scores scoreReader, roster rosterReader, thresholds thresholdProvider, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg RiskServiceConfig) *RiskService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RedRunLength <= 0 {
		cfg.RedRunLength = 2
	}
	if cfg.YellowRunLength <= 0 {
		cfg.YellowRunLength = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskService{
		scores:     scores,
		roster:     roster,
		thresholds: thresholds,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// Consecutive flags students with sustained red or yellow weekly
// streaks. Zero run lengths fall back to the configured defaults.
func (s *RiskService) Consecutive(ctx context.Context, redRun, yellowRun int) ([]models.RiskFlag, bool, error) {
	if redRun <= 0 {
		redRun = s.cfg.RedRunLength
	}
	if yellowRun <= 0 {
		yellowRun = s.cfg.YellowRunLength
	}

	snap, err := loadSnapshot(ctx, s.scores, s.roster, s.thresholds)
	if err != nil {
		return nil, false, err
	}

	key := fmt.Sprintf("report:risk:consecutive:v%d:%d:%d", snap.Config.Version, redRun, yellowRun)
	var cached []models.RiskFlag
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	flags := engine.ConsecutiveRuns(snap.Merged, redRun, yellowRun)
	s.observe("consecutive", start)
	s.persist(ctx, key, flags)
	return flags, false, nil
}

// Windows reports AND-rule window triggers. A nil rule uses the active
// configuration's window rule.
func (s *RiskService) Windows(ctx context.Context, rule *models.WindowRule) ([]models.WindowTrigger, bool, error) {
	snap, err := loadSnapshot(ctx, s.scores, s.roster, s.thresholds)
	if err != nil {
		return nil, false, err
	}
	effective := snap.Config.Window
	if rule != nil {
		effective = *rule
	}

	key := fmt.Sprintf("report:risk:windows:v%d:%d:%d:%d",
		snap.Config.Version, effective.MinRedCount, effective.MinTotalCount, effective.EffectiveLength())
	var cached []models.WindowTrigger
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	triggers := engine.ScanWindows(snap.Merged, effective)
	s.observe("windows", start)
	s.persist(ctx, key, triggers)
	return triggers, false, nil
}

// Divergence flags weekly-versus-exam and cross-subject gaps.
func (s *RiskService) Divergence(ctx context.Context) ([]models.DivergenceFlag, bool, error) {
	snap, err := loadSnapshot(ctx, s.scores, s.roster, s.thresholds)
	if err != nil {
		return nil, false, err
	}

	key := fmt.Sprintf("report:risk:divergence:v%d", snap.Config.Version)
	var cached []models.DivergenceFlag
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	flags := engine.Divergence(snap.Merged, snap.Config)
	s.observe("divergence", start)
	s.persist(ctx, key, flags)
	return flags, false, nil
}

func (s *RiskService) observe(detector string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDetectorRun(detector, time.Since(start))
	}
}

func (s *RiskService) persist(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("risk cache write failed", zap.String("key", key), zap.Error(err))
	}
}
