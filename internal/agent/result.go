package agent

import "github.com/aulavia/aulavia-backend/internal/types"

type ResultKind string

const (
	KindText       ResultKind = "text"
	KindExam       ResultKind = "exam"
	KindConceptMap ResultKind = "conceptmap"
	KindLessonPlan ResultKind = "lessonplan"
	KindError      ResultKind = "error"
)

// Result is the dispatcher outcome. Kind says which payload field is
// set; KindText and KindError carry Text only.
type Result struct {
	Kind       ResultKind        `json:"kind"`
	Text       string            `json:"text,omitempty"`
	Exam       *types.Exam       `json:"exam,omitempty"`
	ConceptMap *types.ConceptMap `json:"concept_map,omitempty"`
	LessonPlan *types.LessonPlan `json:"lesson_plan,omitempty"`
}

func textResult(text string) Result  { return Result{Kind: KindText, Text: text} }
func errorResult(text string) Result { return Result{Kind: KindError, Text: text} }
