package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/pa-ews-api/internal/models"
	appErrors "github.com/noah-isme/pa-ews-api/pkg/errors"
)

type thresholdStore interface {
	Active(ctx context.Context) (*models.ThresholdConfig, error)
	Save(ctx context.Context, cfg models.ThresholdConfig) (*models.ThresholdConfig, error)
}

// ThresholdService manages the versioned detector configuration. All
// report services read the active version through Current.
type ThresholdService struct {
	store     thresholdStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewThresholdService constructs the service.
func NewThresholdService(store thresholdStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ThresholdService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThresholdService{store: store, cache: cache, validator: validate, logger: logger}
}

// ThresholdPairPayload is one red/yellow cutoff pair in an update.
type ThresholdPairPayload struct {
	RedMax    float64 `json:"red_max" validate:"gte=0,lte=100"`
	YellowMax float64 `json:"yellow_max" validate:"gte=0,lte=100"`
}

// UpdateThresholdRequest replaces the full detector configuration.
// Inverted pairs are accepted with a warning; classification proceeds
// with the literal values.
type UpdateThresholdRequest struct {
	Global    ThresholdPairPayload            `json:"global" validate:"required"`
	ByProgram map[string]ThresholdPairPayload `json:"by_program" validate:"omitempty,dive"`
	Advanced  struct {
		MidLow   float64 `json:"mid_low" validate:"gte=0,lte=100"`
		FinalLow float64 `json:"final_low" validate:"gte=0,lte=100"`
		CrossGap float64 `json:"cross_gap" validate:"gte=0,lte=100"`
	} `json:"advanced"`
	Window struct {
		MinRedCount   int `json:"min_red_count" validate:"gte=1"`
		MinTotalCount int `json:"min_total_count" validate:"gte=1"`
		WindowLength  int `json:"window_length" validate:"gte=0,lte=18"`
	} `json:"window"`
}

// Current returns the active configuration, falling back to the
// documented defaults when nothing has been persisted yet.
func (s *ThresholdService) Current(ctx context.Context) (*models.ThresholdConfig, error) {
	cfg, err := s.store.Active(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			defaults := models.DefaultThresholds()
			return &defaults, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load threshold config")
	}
	return cfg, nil
}

// Update validates and persists the configuration as a new version and
// drops cached reports built against older data.
func (s *ThresholdService) Update(ctx context.Context, req UpdateThresholdRequest) (*models.ThresholdConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid threshold payload")
	}

	cfg := models.ThresholdConfig{
		Global:    models.ThresholdPair{RedMax: req.Global.RedMax, YellowMax: req.Global.YellowMax},
		ByProgram: map[string]models.ThresholdPair{},
		Advanced: models.AdvancedThresholds{
			MidLow:   req.Advanced.MidLow,
			FinalLow: req.Advanced.FinalLow,
			CrossGap: req.Advanced.CrossGap,
		},
		Window: models.WindowRule{
			MinRedCount:   req.Window.MinRedCount,
			MinTotalCount: req.Window.MinTotalCount,
			WindowLength:  req.Window.WindowLength,
		},
	}
	for program, pair := range req.ByProgram {
		cfg.ByProgram[program] = models.ThresholdPair{RedMax: pair.RedMax, YellowMax: pair.YellowMax}
	}

	for _, warning := range cfg.Warnings() {
		s.logger.Warn("threshold configuration warning", zap.String("detail", warning))
	}

	saved, err := s.store.Save(ctx, cfg)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "save threshold config")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "report:*"); err != nil {
			s.logger.Warn("report cache invalidation failed", zap.Error(err))
		}
	}
	s.logger.Info("threshold configuration updated", zap.Int("version", saved.Version))
	return saved, nil
}
