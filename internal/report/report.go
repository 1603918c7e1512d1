// Package report renders forecast reports for terminals.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/okian/gradepilot/internal/domain/forecast"
	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/internal/domain/types"
)

const noValue = "-"

// Option configures Render.
type Option func(*settings)

type settings struct {
	whatIf *float64
}

// WithWhatIf adds a projection for a hypothetical remaining average.
func WithWhatIf(score float64) Option {
	return func(s *settings) {
		if !math.IsNaN(score) && !math.IsInf(score, 0) {
			s.whatIf = &score
		}
	}
}

// Render derives snap and returns the boxed report under title.
func Render(title string, snap model.Snapshot, opts ...Option) string {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	res := forecast.Derive(snap)

	rows := []string{
		TitleStyle.Render(title),
		"",
		row("Current average", Percent(res.CurrentAverage)+"  "+BoldStyle.Render(string(res.Letter))),
		row("Tier", toneStyle(res.Tier.Tone).Render(res.Tier.Label)),
		row("Weights", weightLine(res.Weights)),
		row("Target", fmt.Sprintf("%s (%s)", Percent(&res.TargetGrade), res.TargetLetter)),
		row("Required average", Percent(res.RequiredAverage)+"  "+statusStyle(res.Status).Render(StatusText(res.Status))),
		row("Final range", fmt.Sprintf("%s to %s", Percent(res.Range.Worst), Percent(res.Range.Best))),
		row("Safety margin", points(res.SafetyMargin)),
	}

	if s.whatIf != nil {
		p := forecast.WhatIf(snap, *s.whatIf)
		rows = append(rows, row(
			"What if",
			fmt.Sprintf("%s on remaining work gives %s (%s)", Percent(&p.Score), Percent(&p.Projected), p.Letter),
		))
	}

	if len(res.Categories) > 0 {
		rows = append(rows, "", BoldStyle.Render("Categories"))
		for _, c := range res.Categories {
			rows = append(rows, categoryLine(c))
		}
	}

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// WeightSummary describes the weight total, e.g. "10% over".
func WeightSummary(w types.WeightCheck) string {
	if w.Valid {
		return "weights total 100%"
	}
	diff := strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", math.Abs(w.Delta)), "0"), ".")
	if w.Delta > 0 {
		return diff + "% over"
	}
	return diff + "% under"
}

// StatusText is the human form of a target status.
func StatusText(s types.Status) string {
	switch s {
	case types.StatusSecured:
		return "target secured"
	case types.StatusOnTrack:
		return "on track"
	case types.StatusHighBar:
		return "needs a near-perfect average"
	case types.StatusUnreachable:
		return "out of reach"
	case types.StatusLocked:
		return "grade is final"
	default:
		return string(s)
	}
}

// Percent formats v with one decimal, or "-" when nil.
func Percent(v *float64) string {
	if v == nil {
		return noValue
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func points(v *float64) string {
	if v == nil {
		return noValue
	}
	return fmt.Sprintf("%.1f pts", *v)
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
}

func weightLine(w types.WeightCheck) string {
	if w.Valid {
		return SuccessStyle.Render(WeightSummary(w))
	}
	return WarningStyle.Render(fmt.Sprintf("%s (total %.1f%%)", WeightSummary(w), w.Total))
}

func statusStyle(s types.Status) lipgloss.Style {
	switch s {
	case types.StatusSecured, types.StatusOnTrack:
		return SuccessStyle
	case types.StatusHighBar:
		return WarningStyle
	case types.StatusUnreachable:
		return ErrorStyle
	default:
		return SubtleStyle
	}
}

func categoryLine(c types.CategoryScore) string {
	name := c.Name
	if name == "" {
		name = c.ID
	}
	return fmt.Sprintf("  %s %s  %s %s  %s",
		LabelStyle.Render(name),
		SubtleStyle.Render(fmt.Sprintf("%5.1f%%", c.Weight)),
		Percent(c.Score),
		c.Letter,
		SubtleStyle.Render(fmt.Sprintf("%d/%d graded", c.Graded, c.Total)),
	)
}
