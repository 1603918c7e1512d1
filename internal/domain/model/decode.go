package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Numeric fields arriving from clients are coerced rather than rejected:
// missing or non-numeric values become 0, numeric strings are parsed.
// score_earned is the exception: null, absent or "" means ungraded.

// MaxMagnitude bounds every coerced number so engine sums stay finite.
const MaxMagnitude = 1e9

var nullLiteral = []byte("null")

// coerceNumber converts a raw JSON value to a finite float64, or 0.
func coerceNumber(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullLiteral) {
		return 0
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0
		}
	} else {
		text = string(raw)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(-MaxMagnitude, math.Min(MaxMagnitude, v))
}

// ParseNumber coerces a nullable field. It returns nil when raw is absent,
// null or an empty string.
func ParseNumber(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullLiteral) {
		return nil
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil && strings.TrimSpace(text) == "" {
			return nil
		}
	}
	v := coerceNumber(raw)
	return &v
}

// UnmarshalJSON decodes an assignment, coercing its numeric fields.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            string          `json:"id"`
		Name          string          `json:"name"`
		ScoreEarned   json.RawMessage `json:"score_earned"`
		ScorePossible json.RawMessage `json:"score_possible"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.ID = raw.ID
	a.Name = raw.Name
	a.ScoreEarned = ParseNumber(raw.ScoreEarned)
	a.ScorePossible = coerceNumber(raw.ScorePossible)
	return nil
}

// UnmarshalJSON decodes a category, coercing its weight.
func (c *Category) UnmarshalJSON(data []byte) error {
	type categoryFields Category
	var raw struct {
		categoryFields
		Weight json.RawMessage `json:"weight"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Category(raw.categoryFields)
	c.Weight = coerceNumber(raw.Weight)
	if c.Assignments == nil {
		c.Assignments = []Assignment{}
	}
	return nil
}

// UnmarshalJSON decodes a grade scale, coercing each threshold.
func (g *GradeScale) UnmarshalJSON(data []byte) error {
	var raw struct {
		A json.RawMessage `json:"a"`
		B json.RawMessage `json:"b"`
		C json.RawMessage `json:"c"`
		D json.RawMessage `json:"d"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.A = coerceNumber(raw.A)
	g.B = coerceNumber(raw.B)
	g.C = coerceNumber(raw.C)
	g.D = coerceNumber(raw.D)
	return nil
}

// UnmarshalJSON decodes a snapshot. A missing grade_scale falls back to
// DefaultScale; a missing target_grade is 0.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Categories  []Category      `json:"categories"`
		TargetGrade json.RawMessage `json:"target_grade"`
		GradeScale  json.RawMessage `json:"grade_scale"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Categories = raw.Categories
	if s.Categories == nil {
		s.Categories = []Category{}
	}
	s.TargetGrade = coerceNumber(raw.TargetGrade)

	scale := bytes.TrimSpace(raw.GradeScale)
	if len(scale) == 0 || bytes.Equal(scale, nullLiteral) {
		s.GradeScale = DefaultScale()
		return nil
	}
	return json.Unmarshal(scale, &s.GradeScale)
}
