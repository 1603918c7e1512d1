package model

import (
	"bytes"
	"encoding/json"
)

// CategoryPatch is a partial category update. Nil fields are left alone.
type CategoryPatch struct {
	Name   *string
	Weight *float64
}

// UnmarshalJSON decodes a category patch, coercing weight when present.
func (p *CategoryPatch) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   *string         `json:"name"`
		Weight json.RawMessage `json:"weight"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Name = raw.Name
	if len(raw.Weight) > 0 {
		w := coerceNumber(raw.Weight)
		p.Weight = &w
	}
	return nil
}

// Apply writes the patch onto c.
func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Weight != nil {
		c.Weight = *p.Weight
	}
}

// AssignmentPatch is a partial assignment update. SetScore distinguishes
// an explicit null score (ungrade) from an absent one.
type AssignmentPatch struct {
	Name          *string
	SetScore      bool
	ScoreEarned   *float64
	ScorePossible *float64
}

// UnmarshalJSON decodes an assignment patch with the same coercion rules
// as Assignment.
func (p *AssignmentPatch) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = AssignmentPatch{}

	if raw, ok := fields["name"]; ok && !bytes.Equal(bytes.TrimSpace(raw), nullLiteral) {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return err
		}
		p.Name = &name
	}
	if raw, ok := fields["score_earned"]; ok {
		p.SetScore = true
		p.ScoreEarned = ParseNumber(raw)
	}
	if raw, ok := fields["score_possible"]; ok {
		v := coerceNumber(raw)
		p.ScorePossible = &v
	}
	return nil
}

// Apply writes the patch onto a.
func (p AssignmentPatch) Apply(a *Assignment) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.SetScore {
		a.ScoreEarned = nil
		if p.ScoreEarned != nil {
			v := *p.ScoreEarned
			a.ScoreEarned = &v
		}
	}
	if p.ScorePossible != nil {
		a.ScorePossible = *p.ScorePossible
	}
}
