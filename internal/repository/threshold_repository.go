package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

// ThresholdRepository persists the versioned detector configuration as
// a JSON document. The newest version is the active one; old versions
// are kept for audit.
type ThresholdRepository struct {
	db *sqlx.DB
}

// NewThresholdRepository creates a new threshold repository.
func NewThresholdRepository(db *sqlx.DB) *ThresholdRepository {
	return &ThresholdRepository{db: db}
}

type thresholdRow struct {
	Version   int       `db:"version"`
	Payload   []byte    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Active loads the highest-version configuration. sql.ErrNoRows is
// returned when nothing has been persisted yet.
func (r *ThresholdRepository) Active(ctx context.Context) (*models.ThresholdConfig, error) {
	var row thresholdRow
	const query = `SELECT version, payload, updated_at FROM threshold_configs
        ORDER BY version DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, err
	}
	var cfg models.ThresholdConfig
	if err := json.Unmarshal(row.Payload, &cfg); err != nil {
		return nil, fmt.Errorf("decode threshold config: %w", err)
	}
	cfg.Version = row.Version
	cfg.UpdatedAt = row.UpdatedAt
	if cfg.ByProgram == nil {
		cfg.ByProgram = map[string]models.ThresholdPair{}
	}
	return &cfg, nil
}

// Save persists the configuration as the next version and returns the
// stored copy.
func (r *ThresholdRepository) Save(ctx context.Context, cfg models.ThresholdConfig) (*models.ThresholdConfig, error) {
	var latest int
	err := r.db.GetContext(ctx, &latest, "SELECT COALESCE(MAX(version), 0) FROM threshold_configs")
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("read latest threshold version: %w", err)
	}
	cfg.Version = latest + 1
	cfg.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode threshold config: %w", err)
	}
	const query = `INSERT INTO threshold_configs (version, payload, updated_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, cfg.Version, payload, cfg.UpdatedAt); err != nil {
		return nil, fmt.Errorf("save threshold config: %w", err)
	}
	return &cfg, nil
}
