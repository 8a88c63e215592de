package types

import (
	"fmt"
	"strings"
)

const (
	QuestionTypeMCQ  = "mcq"
	QuestionTypeOpen = "open"
)

// TranslationQuestionCount is fixed for classical-translation exams: one
// source passage, five comprehension questions.
const TranslationQuestionCount = 5

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type Question struct {
	ID          string   `json:"id"`
	QType       string   `json:"qtype"`
	Text        string   `json:"text"`
	Options     []Option `json:"options,omitempty"`
	IdealAnswer string   `json:"ideal_answer,omitempty"`
	Explanation string   `json:"explanation"`
}

// CorrectOption returns the option marked correct, or false when the
// question is malformed (none marked). Grading treats that case as
// an incorrect answer rather than an error.
func (q Question) CorrectOption() (Option, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o, true
		}
	}
	return Option{}, false
}

type Exam struct {
	Title                string     `json:"title"`
	Questions            []Question `json:"questions"`
	VersionText          string     `json:"version_text,omitempty"`
	ReferenceTranslation string     `json:"reference_translation,omitempty"`
}

// IsTranslation reports whether the exam carries a source passage to
// translate ("versione" mode).
func (e Exam) IsTranslation() bool {
	return strings.TrimSpace(e.VersionText) != ""
}

func (e Exam) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("exam title is empty")
	}
	if len(e.Questions) == 0 {
		return fmt.Errorf("exam has no questions")
	}
	for i, q := range e.Questions {
		if err := q.validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	if e.IsTranslation() {
		if strings.TrimSpace(e.ReferenceTranslation) == "" {
			return fmt.Errorf("version_text set without reference_translation")
		}
		if len(e.Questions) != TranslationQuestionCount {
			return fmt.Errorf("translation exam has %d questions, want %d", len(e.Questions), TranslationQuestionCount)
		}
	}
	return nil
}

// ValidateForGrading checks only the shape grading needs: questions
// exist, each has text and a known type. Malformed MCQs (no option
// marked correct) pass so grading can score and flag them.
func (e Exam) ValidateForGrading() error {
	if len(e.Questions) == 0 {
		return fmt.Errorf("exam has no questions")
	}
	for i, q := range e.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %d: question text is empty", i)
		}
		switch q.QType {
		case QuestionTypeMCQ, QuestionTypeOpen:
		default:
			return fmt.Errorf("question %d: unknown qtype %q", i, q.QType)
		}
	}
	return nil
}

func (q Question) validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is empty")
	}
	switch q.QType {
	case QuestionTypeMCQ:
		if len(q.Options) == 0 {
			return fmt.Errorf("mcq question has no options")
		}
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("mcq question has %d correct options, want 1", correct)
		}
	case QuestionTypeOpen:
		if len(q.Options) > 0 {
			return fmt.Errorf("open question carries options")
		}
	default:
		return fmt.Errorf("unknown qtype %q", q.QType)
	}
	return nil
}
