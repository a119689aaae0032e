package models

import (
	"fmt"
	"time"
)

// ThresholdPair holds the inclusive red/yellow cutoffs. A score at or
// below RedMax is red; above RedMax and at or below YellowMax is
// yellow; anything higher is green.
type ThresholdPair struct {
	RedMax    float64 `json:"red_max"`
	YellowMax float64 `json:"yellow_max"`
}

// AdvancedThresholds configure the cross-assessment divergence detector.
type AdvancedThresholds struct {
	MidLow   float64 `json:"mid_low"`
	FinalLow float64 `json:"final_low"`
	CrossGap float64 `json:"cross_gap"`
}

// WindowRule configures the fixed-window AND-rule detector. A window of
// WindowLength consecutive fully-scored weeks triggers when it contains
// at least MinRedCount reds and at least MinTotalCount reds+yellows.
// WindowLength 0 means "use MinTotalCount".
type WindowRule struct {
	MinRedCount   int `json:"min_red_count"`
	MinTotalCount int `json:"min_total_count"`
	WindowLength  int `json:"window_length"`
}

// EffectiveLength resolves the window length default.
func (r WindowRule) EffectiveLength() int {
	if r.WindowLength > 0 {
		return r.WindowLength
	}
	return r.MinTotalCount
}

// ThresholdConfig is the full, versioned detector configuration. It is
// passed by value into every engine call; detectors never read ambient
// state.
type ThresholdConfig struct {
	Version   int                      `json:"version"`
	Global    ThresholdPair            `json:"global"`
	ByProgram map[string]ThresholdPair `json:"by_program"`
	Advanced  AdvancedThresholds       `json:"advanced"`
	Window    WindowRule               `json:"window"`
	UpdatedAt time.Time                `json:"updated_at,omitempty"`
}

// DefaultThresholds returns the documented out-of-the-box configuration.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		Version:   1,
		Global:    ThresholdPair{RedMax: 40, YellowMax: 70},
		ByProgram: map[string]ThresholdPair{},
		Advanced:  AdvancedThresholds{MidLow: 60, FinalLow: 60, CrossGap: 20},
		Window:    WindowRule{MinRedCount: 2, MinTotalCount: 4},
	}
}

// Warnings reports configuration inconsistencies. An inverted pair is a
// warning only; classification proceeds with the literal values.
func (c ThresholdConfig) Warnings() []string {
	var warnings []string
	if c.Global.YellowMax < c.Global.RedMax {
		warnings = append(warnings, fmt.Sprintf(
			"global yellow_max (%.0f) is below red_max (%.0f)", c.Global.YellowMax, c.Global.RedMax))
	}
	for program, pair := range c.ByProgram {
		if pair.YellowMax < pair.RedMax {
			warnings = append(warnings, fmt.Sprintf(
				"program %s yellow_max (%.0f) is below red_max (%.0f)", program, pair.YellowMax, pair.RedMax))
		}
	}
	if c.Window.MinRedCount > c.Window.MinTotalCount {
		warnings = append(warnings, fmt.Sprintf(
			"window min_red_count (%d) exceeds min_total_count (%d)", c.Window.MinRedCount, c.Window.MinTotalCount))
	}
	return warnings
}
