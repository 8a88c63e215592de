package retrieval

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aulavia/aulavia-backend/internal/platform/logger"
)

func TestFormatContextEmpty(t *testing.T) {
	if got := FormatContext(nil); got != "" {
		t.Fatalf("empty context: want=%q got=%q", "", got)
	}
}

func TestFormatContextRendersSourceAndPage(t *testing.T) {
	got := FormatContext([]Passage{
		{Source: "manuale.pdf", Page: 12, Text: "Le guerre puniche..."},
		{Source: "atlante.pdf", Page: 3, Text: "Cartagine..."},
	})
	if !strings.Contains(got, "[manuale.pdf - pagina 12]") {
		t.Fatalf("missing first header: got=%q", got)
	}
	if !strings.Contains(got, "\n---\n") {
		t.Fatalf("missing separator: got=%q", got)
	}
	if !strings.HasPrefix(got, "Contesto recuperato:") {
		t.Fatalf("missing preamble: got=%q", got)
	}
}

func TestVectorLiteral(t *testing.T) {
	got := vectorLiteral([]float32{1, 0.5, -2})
	if got != "[1,0.5,-2]" {
		t.Fatalf("literal: want=%q got=%q", "[1,0.5,-2]", got)
	}
}

type searcherFunc func(ctx context.Context, query string, topK int) ([]Passage, error)

func (f searcherFunc) Search(ctx context.Context, query string, topK int) ([]Passage, error) {
	return f(ctx, query, topK)
}

func TestGuidelinesDegradesToEmptyOnFailure(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	g := NewGuidelines(log, searcherFunc(func(ctx context.Context, q string, k int) ([]Passage, error) {
		return nil, fmt.Errorf("backend down")
	}), nil, 0)

	if got := g.Context(context.Background()); got != "" {
		t.Fatalf("context: want empty got=%q", got)
	}
}

func TestGuidelinesQueryScopedToReferenceDoc(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	var seenQuery string
	g := NewGuidelines(log, searcherFunc(func(ctx context.Context, q string, k int) ([]Passage, error) {
		seenQuery = q
		return []Passage{{Source: GradingGuidelinesDoc, Page: 1, Text: "fedeltà al testo"}}, nil
	}), nil, 0)

	got := g.Context(context.Background())
	if !strings.Contains(seenQuery, GradingGuidelinesDoc) {
		t.Fatalf("query not scoped to reference doc: got=%q", seenQuery)
	}
	if !strings.Contains(got, "fedeltà al testo") {
		t.Fatalf("context: got=%q", got)
	}
}
