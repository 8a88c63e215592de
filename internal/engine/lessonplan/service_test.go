package lessonplan

import (
	"context"
	"errors"
	"strings"
	"testing"

	pkgerrors "github.com/aulavia/aulavia-backend/internal/pkg/errors"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
	"github.com/aulavia/aulavia-backend/internal/platform/openai"
	"github.com/aulavia/aulavia-backend/internal/retrieval"
)

type fakeAI struct {
	reply string
	err   error
	calls [][]openai.Message
}

func (f *fakeAI) Complete(_ context.Context, msgs []openai.Message) (string, error) {
	f.calls = append(f.calls, msgs)
	return f.reply, f.err
}

func (f *fakeAI) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("fakeAI: embed not scripted")
}

type searcherFunc func(ctx context.Context, query string, topK int) ([]retrieval.Passage, error)

func (f searcherFunc) Search(ctx context.Context, query string, topK int) ([]retrieval.Passage, error) {
	return f(ctx, query, topK)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

const planReply = `{
  "lessons": [
    {
      "title": "Introduzione",
      "objectives": ["capire le basi"],
      "activities": ["lettura guidata"],
      "materials": ["libro di testo"],
      "assessment": "domande orali"
    },
    {
      "title": "Approfondimento",
      "objectives": ["applicare le basi"],
      "activities": ["esercizi in coppia"],
      "materials": ["schede"],
      "assessment": "verifica scritta"
    }
  ]
}`

func TestGenerateFillsEnvelopeFromRequest(t *testing.T) {
	ai := &fakeAI{reply: planReply}
	svc := NewService(testLogger(t), ai, nil)

	plan, err := svc.Generate(context.Background(), GenerateRequest{
		Subject: "storia",
		Topic:   "rivoluzione francese",
		Grade:   "terza media",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if plan.Subject != "storia" || plan.Topic != "rivoluzione francese" || plan.Grade != "terza media" {
		t.Fatalf("envelope: %+v", plan)
	}
	if plan.LessonMinutes != DefaultLessonMinutes {
		t.Fatalf("lesson_minutes: want=%d got=%d", DefaultLessonMinutes, plan.LessonMinutes)
	}
	if len(plan.Lessons) != 2 {
		t.Fatalf("lessons: want=2 got=%d", len(plan.Lessons))
	}
	for i, l := range plan.Lessons {
		if l.LessonNumber != i+1 {
			t.Fatalf("lesson %d numbered %d", i, l.LessonNumber)
		}
	}
}

func TestGenerateUsesRetrievedContext(t *testing.T) {
	ai := &fakeAI{reply: planReply}
	searcher := searcherFunc(func(_ context.Context, query string, topK int) ([]retrieval.Passage, error) {
		if topK != retrievalTopK {
			t.Fatalf("topK: want=%d got=%d", retrievalTopK, topK)
		}
		return []retrieval.Passage{{Source: "programma.pdf", Page: 1, Text: "gli stati generali del 1789"}}, nil
	})
	svc := NewService(testLogger(t), ai, searcher)

	if _, err := svc.Generate(context.Background(), GenerateRequest{Topic: "rivoluzione francese"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var joined strings.Builder
	for _, m := range ai.calls[0] {
		joined.WriteString(m.Content)
	}
	if !strings.Contains(joined.String(), "gli stati generali del 1789") {
		t.Fatal("retrieved passage not present in prompt")
	}
}

func TestGenerateSurvivesRetrievalOutage(t *testing.T) {
	ai := &fakeAI{reply: planReply}
	searcher := searcherFunc(func(context.Context, string, int) ([]retrieval.Passage, error) {
		return nil, pkgerrors.ErrRetrievalUnavailable
	})
	svc := NewService(testLogger(t), ai, searcher)

	if _, err := svc.Generate(context.Background(), GenerateRequest{Topic: "rivoluzione francese"}); err != nil {
		t.Fatalf("Generate must survive a retrieval outage: %v", err)
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	ai := &fakeAI{err: errors.New("timeout")}
	svc := NewService(testLogger(t), ai, nil)

	_, err := svc.Generate(context.Background(), GenerateRequest{Topic: "storia"})
	if !errors.Is(err, pkgerrors.ErrGenerationUnavailable) {
		t.Fatalf("want ErrGenerationUnavailable, got %v", err)
	}
}
