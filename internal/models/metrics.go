package models

import "time"

// SystemMetrics is a lightweight aggregate of runtime counters exposed
// alongside the Prometheus endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	RowsIngested             uint64    `json:"rows_ingested"`
	RowsDropped              uint64    `json:"rows_dropped"`
	DetectorRuns             uint64    `json:"detector_runs"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
