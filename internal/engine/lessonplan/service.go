package lessonplan

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/aulavia/aulavia-backend/internal/pkg/errors"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
	"github.com/aulavia/aulavia-backend/internal/platform/openai"
	"github.com/aulavia/aulavia-backend/internal/prompts"
	"github.com/aulavia/aulavia-backend/internal/retrieval"
	"github.com/aulavia/aulavia-backend/internal/structured"
	"github.com/aulavia/aulavia-backend/internal/types"
)

const (
	DefaultLessonMinutes = 60
	DefaultGrade         = "scuola secondaria"
	retrievalTopK        = 10
)

type GenerateRequest struct {
	Subject       string
	Topic         string
	Grade         string
	LessonMinutes int
	GlobalGoals   string
}

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (types.LessonPlan, error)
}

type service struct {
	log      *logger.Logger
	ai       openai.Client
	searcher retrieval.Searcher
}

func NewService(log *logger.Logger, ai openai.Client, searcher retrieval.Searcher) Service {
	return &service{
		log:      log.With("service", "LessonPlanService"),
		ai:       ai,
		searcher: searcher,
	}
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (types.LessonPlan, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return types.LessonPlan{}, fmt.Errorf("topic is required")
	}
	if strings.TrimSpace(req.Subject) == "" {
		req.Subject = req.Topic
	}
	if strings.TrimSpace(req.Grade) == "" {
		req.Grade = DefaultGrade
	}
	if req.LessonMinutes <= 0 {
		req.LessonMinutes = DefaultLessonMinutes
	}

	contextText := ""
	if s.searcher != nil {
		passages, err := s.searcher.Search(ctx, req.Topic, retrievalTopK)
		if err != nil {
			s.log.Warn("retrieval unavailable, planning without context", "topic", req.Topic, "error", err)
		} else {
			contextText = retrieval.FormatContext(passages)
		}
	}

	prompt, err := prompts.Build(prompts.PromptLessonPlan, prompts.Input{
		Subject:       req.Subject,
		Topic:         req.Topic,
		Grade:         req.Grade,
		LessonMinutes: req.LessonMinutes,
		GlobalGoals:   req.GlobalGoals,
		Context:       contextText,
	})
	if err != nil {
		return types.LessonPlan{}, err
	}
	raw, err := s.ai.Complete(ctx, prompt.Messages())
	if err != nil {
		return types.LessonPlan{}, fmt.Errorf("%w: %v", pkgerrors.ErrGenerationUnavailable, err)
	}
	payload, err := structured.ExtractObject(raw)
	if err != nil {
		return types.LessonPlan{}, err
	}

	// Envelope fields the model left out are filled from the request;
	// what the model did echo back stays as is.
	plan, err := structured.CoerceLessonPlan(payload, types.LessonPlan{
		Subject:       req.Subject,
		Topic:         req.Topic,
		Grade:         req.Grade,
		LessonMinutes: req.LessonMinutes,
		GlobalGoals:   req.GlobalGoals,
	})
	if err != nil {
		return types.LessonPlan{}, err
	}
	s.log.Info("lesson plan generated", "topic", req.Topic, "lessons", len(plan.Lessons))
	return plan, nil
}
