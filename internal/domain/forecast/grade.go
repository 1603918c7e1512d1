package forecast

import (
	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/internal/domain/types"
)

// Performance tier bands. They are independent of the configurable scale.
const (
	tierTop     = 95.0
	tierHigh    = 90.0
	tierStable  = 85.0
	tierWatch   = 80.0
	tierAtRisk  = 70.0
	noDataLabel = "NO DATA"
	noDataTone  = "secondary"
)

var tierBands = []struct {
	min  float64
	tier types.Tier
}{
	{tierTop, types.Tier{Label: "A+ TIER", Tone: "green"}},
	{tierHigh, types.Tier{Label: "A-TIER", Tone: "green"}},
	{tierStable, types.Tier{Label: "STABLE", Tone: "blue"}},
	{tierWatch, types.Tier{Label: "WATCH", Tone: "primary"}},
	{tierAtRisk, types.Tier{Label: "AT RISK", Tone: "error"}},
}

var critical = types.Tier{Label: "CRITICAL", Tone: "error"}

// LetterGrade returns the first letter in A, B, C, D whose threshold value
// meets or exceeds; ties go to the higher letter. Below D is F.
func LetterGrade(value float64, scale model.GradeScale) types.Letter {
	switch {
	case value >= scale.A:
		return types.LetterA
	case value >= scale.B:
		return types.LetterB
	case value >= scale.C:
		return types.LetterC
	case value >= scale.D:
		return types.LetterD
	default:
		return types.LetterF
	}
}

// LetterOf is LetterGrade for optional values; nil yields LetterNone.
func LetterOf(value *float64, scale model.GradeScale) types.Letter {
	if value == nil {
		return types.LetterNone
	}
	return LetterGrade(*value, scale)
}

// Threshold returns the minimum percentage that holds letter. F has no floor
// and reports 0.
func Threshold(letter types.Letter, scale model.GradeScale) float64 {
	switch letter {
	case types.LetterA:
		return scale.A
	case types.LetterB:
		return scale.B
	case types.LetterC:
		return scale.C
	case types.LetterD:
		return scale.D
	default:
		return 0
	}
}

// PerformanceTier classifies the current average into a badge.
func PerformanceTier(current *float64) types.Tier {
	if current == nil {
		return types.Tier{Label: noDataLabel, Tone: noDataTone}
	}
	for _, band := range tierBands {
		if *current >= band.min {
			return band.tier
		}
	}
	return critical
}

// SafetyMargin is how many points of the current average can be lost before
// dropping a letter. It looks at the logged average only, not the final grade.
func SafetyMargin(current *float64, scale model.GradeScale) *float64 {
	if current == nil {
		return nil
	}
	margin := *current - Threshold(LetterGrade(*current, scale), scale)
	if margin < 0 {
		margin = 0
	}
	return &margin
}
