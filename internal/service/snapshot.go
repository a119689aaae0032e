package service

import (
	"context"

	"github.com/noah-isme/pa-ews-api/internal/engine"
	"github.com/noah-isme/pa-ews-api/internal/models"
	appErrors "github.com/noah-isme/pa-ews-api/pkg/errors"
)

type scoreReader interface {
	All(ctx context.Context) ([]models.ScoreRecord, error)
}

type rosterReader interface {
	All(ctx context.Context) ([]models.Student, error)
}

type thresholdProvider interface {
	Current(ctx context.Context) (*models.ThresholdConfig, error)
}

// snapshot is the in-memory view every report runs against: the merged
// analytic table plus the configuration it was built with.
type snapshot struct {
	Merged []models.ScoredRecord
	Config models.ThresholdConfig
}

// loadSnapshot pulls scores, roster and active thresholds and merges
// them. ErrNoScoreData is returned when nothing has been uploaded yet,
// so report endpoints fail explicitly instead of rendering empty views.
func loadSnapshot(ctx context.Context, scores scoreReader, roster rosterReader, thresholds thresholdProvider) (*snapshot, error) {
	records, err := scores.All(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load scores")
	}
	if len(records) == 0 {
		return nil, appErrors.ErrNoScoreData
	}

	students, err := roster.All(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load roster")
	}

	cfg, err := thresholds.Current(ctx)
	if err != nil {
		return nil, err
	}

	return &snapshot{
		Merged: engine.Merge(records, students, *cfg),
		Config: *cfg,
	}, nil
}
