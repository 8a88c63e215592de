package types

// Translation feedback verdicts produced by the model judge.
const (
	VerdictCorrect   = "correct"
	VerdictIncorrect = "incorrect"
	VerdictPartial   = "partial"
)

type QuestionResult struct {
	QID         string `json:"qid"`
	Correct     bool   `json:"correct"`
	CorrectText string `json:"correct_text"`
	Explanation string `json:"explanation"`
}

type TranslationFeedback struct {
	Verdict  string `json:"verdict"`
	Feedback string `json:"feedback"`
}

type TranslationResult struct {
	ReferenceTranslation string               `json:"reference_translation"`
	StudentFeedback      *TranslationFeedback `json:"student_feedback,omitempty"`
}

type GradingResult struct {
	Score       int                `json:"score"`
	Max         int                `json:"max"`
	Details     []QuestionResult   `json:"details"`
	Translation *TranslationResult `json:"translation,omitempty"`
}
