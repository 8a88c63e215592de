package types

import (
	"fmt"
	"strings"
)

type Lesson struct {
	LessonNumber int      `json:"lesson_number"`
	Title        string   `json:"title"`
	Objectives   []string `json:"objectives"`
	Activities   []string `json:"activities"`
	Materials    []string `json:"materials,omitempty"`
	Assessment   string   `json:"assessment,omitempty"`
}

// LessonPlan minimums (six lessons, three objectives and activities each)
// are enforced through prompt instructions only; Validate checks shape,
// not counts.
type LessonPlan struct {
	Subject       string   `json:"subject"`
	Topic         string   `json:"topic"`
	Grade         string   `json:"grade"`
	LessonMinutes int      `json:"lesson_minutes"`
	GlobalGoals   string   `json:"global_goals,omitempty"`
	Lessons       []Lesson `json:"lessons"`
}

func (p LessonPlan) Validate() error {
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("lesson plan subject is empty")
	}
	if strings.TrimSpace(p.Topic) == "" {
		return fmt.Errorf("lesson plan topic is empty")
	}
	if len(p.Lessons) == 0 {
		return fmt.Errorf("lesson plan has no lessons")
	}
	for i, l := range p.Lessons {
		if strings.TrimSpace(l.Title) == "" {
			return fmt.Errorf("lesson %d: title is empty", i)
		}
	}
	return nil
}
