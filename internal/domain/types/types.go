// Package types contains common types used across the application
package types

// Letter is a letter grade: A, B, C, D, F, or "-" when there is no data.
type Letter string

// Letter grades in evaluation order.
const (
	LetterA    Letter = "A"
	LetterB    Letter = "B"
	LetterC    Letter = "C"
	LetterD    Letter = "D"
	LetterF    Letter = "F"
	LetterNone Letter = "-"
)

// Tier is a coarse performance badge derived from the current average.
type Tier struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

// Status refines achievability of the target for display.
type Status string

// Target statuses.
const (
	StatusSecured     Status = "secured"     // nothing more is needed on remaining work
	StatusOnTrack     Status = "on_track"    // reachable below the high-bar threshold
	StatusHighBar     Status = "high_bar"    // reachable but needs a near-perfect average
	StatusUnreachable Status = "unreachable" // would need more than 100%
	StatusLocked      Status = "locked"      // no remaining weight; grade is fixed
)

// Range bounds every reachable final grade under the weighting model.
type Range struct {
	Worst   *float64 `json:"worst"`
	Current *float64 `json:"current"`
	Best    *float64 `json:"best"`
}

// WeightCheck describes how far category weights are from 100%.
type WeightCheck struct {
	Total float64 `json:"total"`
	Delta float64 `json:"delta"` // positive means over 100
	Valid bool    `json:"valid"`
}

// CategoryScore is the per-category view of a snapshot.
type CategoryScore struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Weight float64  `json:"weight"`
	Score  *float64 `json:"score"`
	Letter Letter   `json:"letter"`
	Graded int      `json:"graded"`
	Total  int      `json:"total"`
}

// Projection is a what-if final grade for a hypothetical remaining average.
type Projection struct {
	Score     float64 `json:"score"`
	Projected float64 `json:"projected"`
	Letter    Letter  `json:"letter"`
}
