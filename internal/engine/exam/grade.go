package exam

import (
	"context"
	"fmt"
	"strings"

	"github.com/aulavia/aulavia-backend/internal/prompts"
	"github.com/aulavia/aulavia-backend/internal/structured"
	"github.com/aulavia/aulavia-backend/internal/types"
)

// TranslationAnswerKey is the answers-map key carrying the student's
// full translation in translation mode.
const TranslationAnswerKey = "translation"

const translationFallbackFeedback = "Non è stato possibile valutare la traduzione nel dettaglio. Confronta la tua versione con la traduzione di riferimento."

// Grade scores each question against the submitted answers. Missing
// answers count as empty strings. Judgment failures never surface as
// errors: open questions fail closed and translation feedback degrades
// to a partial verdict with a placeholder.
func (s *service) Grade(ctx context.Context, exam types.Exam, answers map[string]string) (types.GradingResult, error) {
	if len(exam.Questions) == 0 {
		return types.GradingResult{}, fmt.Errorf("grade: exam has no questions")
	}

	res := types.GradingResult{Max: len(exam.Questions)}
	for _, q := range exam.Questions {
		answer := strings.TrimSpace(answers[q.ID])
		detail := s.gradeQuestion(ctx, q, answer)
		if detail.Correct {
			res.Score++
		}
		res.Details = append(res.Details, detail)
	}

	if exam.IsTranslation() {
		tr := &types.TranslationResult{ReferenceTranslation: exam.ReferenceTranslation}
		if answer := strings.TrimSpace(answers[TranslationAnswerKey]); answer != "" {
			fb := s.judgeTranslation(ctx, exam, answer)
			tr.StudentFeedback = &fb
		}
		res.Translation = tr
	}
	return res, nil
}

func (s *service) gradeQuestion(ctx context.Context, q types.Question, answer string) types.QuestionResult {
	detail := types.QuestionResult{QID: q.ID, Explanation: q.Explanation}

	switch q.QType {
	case types.QuestionTypeMCQ:
		opt, ok := q.CorrectOption()
		if !ok {
			// A question with no correct option is a generation defect;
			// flag it in the detail rather than failing the whole grade.
			detail.CorrectText = "(domanda non valida)"
			detail.Explanation = "Domanda non valida: nessuna opzione corretta definita."
			return detail
		}
		detail.Correct = answer == opt.ID
		detail.CorrectText = opt.Text
	case types.QuestionTypeOpen:
		detail.CorrectText = q.IdealAnswer
		detail.Correct = answer != "" && s.judgeOpen(ctx, q, answer)
	default:
		detail.CorrectText = "(tipo di domanda sconosciuto)"
	}
	return detail
}

// judgeOpen asks the model for a YES/NO verdict. Any failure to obtain
// or parse a verdict counts as incorrect.
func (s *service) judgeOpen(ctx context.Context, q types.Question, answer string) bool {
	prompt, err := prompts.Build(prompts.PromptOpenJudgment, prompts.Input{
		QuestionText:  q.Text,
		IdealAnswer:   q.IdealAnswer,
		StudentAnswer: answer,
	})
	if err != nil {
		s.log.Warn("open judgment prompt failed", "qid", q.ID, "error", err)
		return false
	}
	raw, err := s.ai.Complete(ctx, prompt.Messages())
	if err != nil {
		s.log.Warn("open judgment unavailable", "qid", q.ID, "error", err)
		return false
	}
	verdict := strings.ToUpper(strings.TrimSpace(raw))
	return strings.HasPrefix(verdict, "Y") || strings.HasPrefix(verdict, "SI") || strings.HasPrefix(verdict, "SÌ")
}

func (s *service) judgeTranslation(ctx context.Context, exam types.Exam, answer string) types.TranslationFeedback {
	fallback := types.TranslationFeedback{
		Verdict:  types.VerdictPartial,
		Feedback: translationFallbackFeedback,
	}

	guidelineCtx := ""
	if s.guidelines != nil {
		guidelineCtx = s.guidelines.Context(ctx)
	}
	prompt, err := prompts.Build(prompts.PromptTranslationFeedback, prompts.Input{
		VersionText:   exam.VersionText,
		Reference:     exam.ReferenceTranslation,
		StudentAnswer: answer,
		Context:       guidelineCtx,
	})
	if err != nil {
		s.log.Warn("translation feedback prompt failed", "error", err)
		return fallback
	}
	raw, err := s.ai.Complete(ctx, prompt.Messages())
	if err != nil {
		s.log.Warn("translation feedback unavailable", "error", err)
		return fallback
	}
	payload, err := structured.ExtractObject(raw)
	if err != nil {
		s.log.Warn("translation feedback unparseable", "error", err)
		return fallback
	}

	verdict, _ := payload["verdict"].(string)
	feedback, _ := payload["feedback"].(string)
	verdict = strings.ToLower(strings.TrimSpace(verdict))
	switch verdict {
	case types.VerdictCorrect, types.VerdictIncorrect, types.VerdictPartial:
	default:
		return fallback
	}
	if strings.TrimSpace(feedback) == "" {
		feedback = translationFallbackFeedback
	}
	return types.TranslationFeedback{Verdict: verdict, Feedback: feedback}
}
