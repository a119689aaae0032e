// Package engine holds the risk-detection core: pure, deterministic
// functions over score snapshots. Nothing here performs I/O or reads
// ambient state; configuration is passed by value into every call.
package engine

import "github.com/noah-isme/pa-ews-api/internal/models"

// Resolve returns the effective red/yellow cutoffs for a program:
// the per-program override when one exists, otherwise the global pair.
// An empty or unmapped program falls back to the global pair, so the
// result is always usable.
func Resolve(cfg models.ThresholdConfig, program string) models.ThresholdPair {
	if program != "" {
		if pair, ok := cfg.ByProgram[program]; ok {
			return pair
		}
	}
	return cfg.Global
}

// Classify maps a score to its traffic-light band using the inclusive
// boundary convention applied uniformly across the whole service:
//
//	score == nil            -> GRAY
//	score <= RedMax         -> RED
//	RedMax < score <= YellowMax -> YELLOW
//	otherwise               -> GREEN
//
// An inverted pair (YellowMax < RedMax) still classifies literally:
// everything at or below RedMax is red and nothing is yellow.
func Classify(score *float64, pair models.ThresholdPair) models.Band {
	if score == nil {
		return models.BandGray
	}
	switch {
	case *score <= pair.RedMax:
		return models.BandRed
	case *score <= pair.YellowMax:
		return models.BandYellow
	default:
		return models.BandGreen
	}
}
