package forecast

import (
	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/internal/domain/types"
)

// Result bundles every derived value for one snapshot.
type Result struct {
	Totals

	Weights         types.WeightCheck     `json:"weights"`
	TargetGrade     float64               `json:"target_grade"`
	RequiredAverage *float64              `json:"required_average"`
	Achievable      bool                  `json:"achievable"`
	Status          types.Status          `json:"status"`
	Range           types.Range           `json:"range"`
	Letter          types.Letter          `json:"letter"`
	TargetLetter    types.Letter          `json:"target_letter"`
	Tier            types.Tier            `json:"tier"`
	SafetyMargin    *float64              `json:"safety_margin"`
	Categories      []types.CategoryScore `json:"categories"`
}

// Derive computes the full derived snapshot. It never mutates s.
func Derive(s model.Snapshot) Result {
	totals := Aggregate(s.Categories)
	required := RequiredAverage(s.TargetGrade, totals.EarnedPoints, totals.RemainingWeight)

	return Result{
		Totals:          totals,
		Weights:         CheckWeights(s.Categories),
		TargetGrade:     s.TargetGrade,
		RequiredAverage: required,
		Achievable:      IsAchievable(required, totals.CurrentAverage, s.TargetGrade),
		Status:          Classify(required),
		Range:           Bounds(totals),
		Letter:          LetterOf(totals.CurrentAverage, s.GradeScale),
		TargetLetter:    LetterGrade(s.TargetGrade, s.GradeScale),
		Tier:            PerformanceTier(totals.CurrentAverage),
		SafetyMargin:    SafetyMargin(totals.CurrentAverage, s.GradeScale),
		Categories:      categoryScores(s),
	}
}

// WhatIf projects the final grade of s for a hypothetical remaining average.
func WhatIf(s model.Snapshot, score float64) types.Projection {
	return Project(Aggregate(s.Categories), score, s.GradeScale)
}

func categoryScores(s model.Snapshot) []types.CategoryScore {
	out := make([]types.CategoryScore, 0, len(s.Categories))
	for _, c := range s.Categories {
		graded := 0
		for _, a := range c.Assignments {
			if a.Graded() {
				graded++
			}
		}
		score := CategoryScore(c)
		out = append(out, types.CategoryScore{
			ID:     c.ID,
			Name:   c.Name,
			Weight: c.Weight,
			Score:  score,
			Letter: LetterOf(score, s.GradeScale),
			Graded: graded,
			Total:  len(c.Assignments),
		})
	}
	return out
}
