package prompts

type PromptName string

const (
	// Exam generation + grading
	PromptExamStandard        PromptName = "exam_standard"
	PromptExamTranslation     PromptName = "exam_translation"
	PromptOpenJudgment        PromptName = "open_judgment"
	PromptTranslationFeedback PromptName = "translation_feedback"

	// Other engines
	PromptConceptMap PromptName = "concept_map"
	PromptLessonPlan PromptName = "lesson_plan"

	// Summaries (map -> reduce)
	PromptSummaryTopic  PromptName = "summary_topic"
	PromptSummaryChunk  PromptName = "summary_chunk"
	PromptSummaryReduce PromptName = "summary_reduce"
)
