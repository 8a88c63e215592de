package exam

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/aulavia/aulavia-backend/internal/pkg/errors"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
	"github.com/aulavia/aulavia-backend/internal/platform/openai"
	"github.com/aulavia/aulavia-backend/internal/prompts"
	"github.com/aulavia/aulavia-backend/internal/structured"
	"github.com/aulavia/aulavia-backend/internal/types"
)

const (
	DefaultQuestionCount = 5
	DefaultDifficulty    = "medium"
)

type GenerateRequest struct {
	Topic      string
	Count      int
	Difficulty string
	// Subject switches the engine into classical-translation mode when it
	// names a translation subject ("versione di latino" and friends).
	Subject string
}

// GuidelineSource supplies the grading-guideline context used by
// translation mode; empty string means generate without it.
type GuidelineSource interface {
	Context(ctx context.Context) string
}

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (types.Exam, error)
	Grade(ctx context.Context, exam types.Exam, answers map[string]string) (types.GradingResult, error)
}

type service struct {
	log        *logger.Logger
	ai         openai.Client
	guidelines GuidelineSource
}

func NewService(log *logger.Logger, ai openai.Client, guidelines GuidelineSource) Service {
	return &service{
		log:        log.With("service", "ExamService"),
		ai:         ai,
		guidelines: guidelines,
	}
}

// IsTranslationSubject reports whether the subject selects translation
// ("versione") mode.
func IsTranslationSubject(subject string) bool {
	s := strings.ToLower(strings.TrimSpace(subject))
	if s == "" {
		return false
	}
	if strings.Contains(s, "versione") || strings.Contains(s, "traduzione") {
		return true
	}
	switch s {
	case "latino", "greco", "latin", "greek":
		return true
	}
	return false
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (types.Exam, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return types.Exam{}, fmt.Errorf("topic is required")
	}
	if req.Count <= 0 {
		req.Count = DefaultQuestionCount
	}
	if strings.TrimSpace(req.Difficulty) == "" {
		req.Difficulty = DefaultDifficulty
	}

	if IsTranslationSubject(req.Subject) {
		return s.generateTranslation(ctx, req)
	}
	return s.generateStandard(ctx, req)
}

func (s *service) generateStandard(ctx context.Context, req GenerateRequest) (types.Exam, error) {
	prompt, err := prompts.Build(prompts.PromptExamStandard, prompts.Input{
		Topic:      req.Topic,
		Count:      req.Count,
		Difficulty: strings.ToUpper(req.Difficulty),
	})
	if err != nil {
		return types.Exam{}, err
	}

	payload, err := s.completeAndExtract(ctx, prompt)
	if err != nil {
		return types.Exam{}, err
	}
	truncateQuestions(payload, req.Count)

	exam, err := structured.CoerceExam(payload)
	if err != nil {
		return types.Exam{}, err
	}
	if len(exam.Questions) != req.Count {
		return types.Exam{}, fmt.Errorf("%w: exam: model returned %d questions, want %d",
			pkgerrors.ErrSchemaViolation, len(exam.Questions), req.Count)
	}
	s.log.Info("exam generated", "topic", req.Topic, "questions", len(exam.Questions))
	return exam, nil
}

func (s *service) generateTranslation(ctx context.Context, req GenerateRequest) (types.Exam, error) {
	guidelineCtx := ""
	if s.guidelines != nil {
		guidelineCtx = s.guidelines.Context(ctx)
	}

	prompt, err := prompts.Build(prompts.PromptExamTranslation, prompts.Input{
		Topic:      req.Topic,
		Difficulty: strings.ToUpper(req.Difficulty),
		Context:    guidelineCtx,
	})
	if err != nil {
		return types.Exam{}, err
	}

	payload, err := s.completeAndExtract(ctx, prompt)
	if err != nil {
		return types.Exam{}, err
	}
	// The question count is non-negotiable: whatever the model returned is
	// cut or padded to exactly five before coercion.
	truncateQuestions(payload, types.TranslationQuestionCount)
	padQuestions(payload, types.TranslationQuestionCount)

	exam, err := structured.CoerceExam(payload)
	if err != nil {
		return types.Exam{}, err
	}
	if !exam.IsTranslation() {
		return types.Exam{}, fmt.Errorf("%w: exam: model returned no source passage",
			pkgerrors.ErrSchemaViolation)
	}
	s.log.Info("translation exam generated", "topic", req.Topic)
	return exam, nil
}

func (s *service) completeAndExtract(ctx context.Context, prompt prompts.Prompt) (map[string]any, error) {
	raw, err := s.ai.Complete(ctx, prompt.Messages())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrGenerationUnavailable, err)
	}
	return structured.ExtractObject(raw)
}

func truncateQuestions(payload map[string]any, n int) {
	qs, ok := payload["questions"].([]any)
	if !ok || len(qs) <= n {
		return
	}
	payload["questions"] = qs[:n]
}

func padQuestions(payload map[string]any, n int) {
	qs, _ := payload["questions"].([]any)
	for i := len(qs); i < n; i++ {
		qs = append(qs, map[string]any{
			"qtype":        types.QuestionTypeOpen,
			"text":         fmt.Sprintf("Domanda %d: riassumi con parole tue un passaggio del brano.", i+1),
			"ideal_answer": "Sintesi fedele di un passaggio del brano.",
			"explanation":  "Domanda di comprensione generale del brano.",
		})
	}
	payload["questions"] = qs
}
