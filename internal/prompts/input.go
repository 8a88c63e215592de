package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty (missingkey=zero).
type Input struct {
	// Generation targets
	Topic         string
	Subject       string
	Count         int
	Difficulty    string // already uppercased by the caller
	Grade         string
	LessonMinutes int
	GlobalGoals   string

	// Retrieval context block (possibly empty)
	Context string

	// Grading
	QuestionText  string
	IdealAnswer   string
	StudentAnswer string
	VersionText   string
	Reference     string

	// Summaries
	Length       string
	BulletTarget int
	Text         string
	Partials     string
}
