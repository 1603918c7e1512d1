// Package model contains domain models passed between layers.
package model

import "time"

// Default grade scale thresholds and target.
const (
	DefaultTargetGrade = 90.0
	DefaultThresholdA  = 90.0
	DefaultThresholdB  = 80.0
	DefaultThresholdC  = 70.0
	DefaultThresholdD  = 60.0
)

// Assignment is a single scored item inside a category.
type Assignment struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ScoreEarned   *float64 `json:"score_earned"` // nil means ungraded
	ScorePossible float64  `json:"score_possible"`
}

// Graded reports whether the assignment contributes to averages.
func (a Assignment) Graded() bool {
	return a.ScoreEarned != nil && a.ScorePossible > 0
}

// Category is a weighted grouping of assignments.
type Category struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Weight      float64      `json:"weight"` // percentage of the final grade
	Assignments []Assignment `json:"assignments"`
}

// GradeScale holds the minimum percentage for each letter. Anything below D is F.
type GradeScale struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
}

// DefaultScale returns the conventional 90/80/70/60 scale.
func DefaultScale() GradeScale {
	return GradeScale{
		A: DefaultThresholdA,
		B: DefaultThresholdB,
		C: DefaultThresholdC,
		D: DefaultThresholdD,
	}
}

// Snapshot is the complete input of every forecast computation.
type Snapshot struct {
	Categories  []Category `json:"categories"`
	TargetGrade float64    `json:"target_grade"`
	GradeScale  GradeScale `json:"grade_scale"`
}

// NewSnapshot returns an empty snapshot with the given target and scale.
func NewSnapshot(target float64, scale GradeScale) Snapshot {
	return Snapshot{
		Categories:  []Category{},
		TargetGrade: target,
		GradeScale:  scale,
	}
}

// Clone returns a deep copy so callers never share category or score storage.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Categories = make([]Category, len(s.Categories))
	for i, c := range s.Categories {
		out.Categories[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the category.
func (c Category) Clone() Category {
	out := c
	out.Assignments = make([]Assignment, len(c.Assignments))
	for i, a := range c.Assignments {
		out.Assignments[i] = a.Clone()
	}
	return out
}

// Clone returns a copy of the assignment with its own score pointer.
func (a Assignment) Clone() Assignment {
	out := a
	if a.ScoreEarned != nil {
		v := *a.ScoreEarned
		out.ScoreEarned = &v
	}
	return out
}

// CategoryIndex returns the position of the category with id, or -1.
func (s Snapshot) CategoryIndex(id string) int {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

// AssignmentIndex returns the position of the assignment with id, or -1.
func (c Category) AssignmentIndex(id string) int {
	for i := range c.Assignments {
		if c.Assignments[i].ID == id {
			return i
		}
	}
	return -1
}

// Course is the unit of persistence: one named snapshot.
type Course struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Snapshot  Snapshot  `json:"snapshot"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the course.
func (c Course) Clone() Course {
	out := c
	out.Snapshot = c.Snapshot.Clone()
	return out
}

// CourseInfo is the listing shape of a course without its snapshot.
type CourseInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Score returns a pointer to v, for building graded assignments.
func Score(v float64) *float64 { return &v }
