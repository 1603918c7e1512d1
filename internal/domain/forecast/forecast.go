// Package forecast derives grade statistics from a course snapshot.
//
// Every function here is pure: inputs are never mutated, results are
// freshly allocated, and identical snapshots always produce identical
// results. Divisions are guarded; undefined values are reported as nil
// rather than NaN or zero.
package forecast

import (
	"math"

	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/internal/domain/types"
)

// Engine constants.
const (
	// WeightTolerance is the allowed distance of the weight total from 100.
	WeightTolerance = 0.01
	fullWeight      = 100.0
	percent         = 100.0
	// HighBar is the required average at and above which a reachable target
	// is flagged as demanding.
	HighBar = 90.0
)

// Totals is the weighted aggregate across all categories.
type Totals struct {
	EarnedPoints    float64  `json:"earned_points"`
	LoggedWeight    float64  `json:"logged_weight"`
	RemainingWeight float64  `json:"remaining_weight"`
	TotalWeight     float64  `json:"total_weight"`
	CurrentAverage  *float64 `json:"current_average"`
}

// CategoryScore returns the points-based average of the graded assignments
// in c, or nil when none are graded or the sums overflow. The result is not
// clamped.
func CategoryScore(c model.Category) *float64 {
	var earned, possible float64
	graded := 0
	for _, a := range c.Assignments {
		if !a.Graded() {
			continue
		}
		earned += *a.ScoreEarned
		possible += a.ScorePossible
		graded++
	}
	if graded == 0 || possible <= 0 {
		return nil
	}
	score := earned / possible * percent
	if !finite(score) {
		return nil
	}
	return &score
}

// Aggregate folds category scores into weighted totals. Only categories with
// positive weight and at least one graded assignment count as logged. A
// category whose contribution overflows is treated as ungraded.
func Aggregate(categories []model.Category) Totals {
	var t Totals
	for _, c := range categories {
		t.TotalWeight += c.Weight
		if c.Weight <= 0 {
			continue
		}
		score := CategoryScore(c)
		if score == nil {
			continue
		}
		points := *score * c.Weight / percent
		if !finite(points) || !finite(t.EarnedPoints+points) {
			continue
		}
		t.EarnedPoints += points
		t.LoggedWeight += c.Weight
	}
	t.RemainingWeight = math.Max(0, fullWeight-t.LoggedWeight)
	if t.LoggedWeight > 0 {
		if avg := t.EarnedPoints / t.LoggedWeight * percent; finite(avg) {
			t.CurrentAverage = &avg
		}
	}
	return t
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsWeightValid reports whether total is within WeightTolerance of 100.
func IsWeightValid(total float64) bool {
	return math.Abs(total-fullWeight) < WeightTolerance
}

// CheckWeights summarises the weight total of categories.
func CheckWeights(categories []model.Category) types.WeightCheck {
	var total float64
	for _, c := range categories {
		total += c.Weight
	}
	return types.WeightCheck{
		Total: total,
		Delta: total - fullWeight,
		Valid: IsWeightValid(total),
	}
}

// RequiredAverage solves earned + x*remaining/100 = target for x. It returns
// nil when there is no remaining weight to improve on.
func RequiredAverage(target, earnedPoints, remainingWeight float64) *float64 {
	if remainingWeight <= 0 {
		return nil
	}
	x := (target - earnedPoints) / remainingWeight * percent
	return &x
}

// IsAchievable reports whether target can still be reached.
func IsAchievable(required, current *float64, target float64) bool {
	if required == nil {
		return current != nil && *current >= target
	}
	return *required <= percent
}

// Classify maps a required average onto a display status.
func Classify(required *float64) types.Status {
	if required == nil {
		return types.StatusLocked
	}
	switch r := *required; {
	case r <= 0:
		return types.StatusSecured
	case r > percent:
		return types.StatusUnreachable
	case r >= HighBar:
		return types.StatusHighBar
	default:
		return types.StatusOnTrack
	}
}

// Bounds returns the closed interval of reachable final grades, assuming
// future category scores between 0% and 100%. With no remaining weight all
// three values collapse to the current average.
func Bounds(t Totals) types.Range {
	if t.RemainingWeight <= 0 {
		return types.Range{
			Worst:   copyOf(t.CurrentAverage),
			Current: copyOf(t.CurrentAverage),
			Best:    copyOf(t.CurrentAverage),
		}
	}
	worst := t.EarnedPoints
	best := t.EarnedPoints + t.RemainingWeight
	return types.Range{
		Worst:   &worst,
		Current: copyOf(t.CurrentAverage),
		Best:    &best,
	}
}

// Project returns the final grade if every remaining point is earned at
// score percent.
func Project(t Totals, score float64, scale model.GradeScale) types.Projection {
	projected := t.EarnedPoints + score/percent*t.RemainingWeight
	return types.Projection{
		Score:     score,
		Projected: projected,
		Letter:    LetterGrade(projected, scale),
	}
}

func copyOf(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
