package summary

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/aulavia/aulavia-backend/internal/pkg/errors"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
	"github.com/aulavia/aulavia-backend/internal/platform/openai"
	"github.com/aulavia/aulavia-backend/internal/prompts"
	"github.com/aulavia/aulavia-backend/internal/types"
)

const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"

	chunkSize    = 2000
	chunkOverlap = 200
)

// bulletTargets maps the requested length to the bullet count asked of
// the model.
var bulletTargets = map[string]int{
	LengthShort:  6,
	LengthMedium: 10,
	LengthLong:   16,
}

// inputCaps bounds how much source text each length is allowed to
// consume before chunking.
var inputCaps = map[string]int{
	LengthShort:  8000,
	LengthMedium: 15000,
	LengthLong:   22000,
}

type GenerateRequest struct {
	Topic string
	// Length is one of short, medium, long. Empty means medium.
	Length string
	// Text, when set, is summarized directly; otherwise the summary is
	// produced from model knowledge of the topic.
	Text string
}

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (types.Summary, error)
}

type service struct {
	log *logger.Logger
	ai  openai.Client
}

func NewService(log *logger.Logger, ai openai.Client) Service {
	return &service{
		log: log.With("service", "SummaryService"),
		ai:  ai,
	}
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (types.Summary, error) {
	if strings.TrimSpace(req.Topic) == "" && strings.TrimSpace(req.Text) == "" {
		return types.Summary{}, fmt.Errorf("topic or text is required")
	}
	length := strings.ToLower(strings.TrimSpace(req.Length))
	if _, ok := bulletTargets[length]; !ok {
		length = LengthMedium
	}

	var (
		md  string
		err error
	)
	if strings.TrimSpace(req.Text) == "" {
		md, err = s.fromTopic(ctx, req.Topic, length)
	} else {
		md, err = s.fromText(ctx, req.Topic, req.Text, length)
	}
	if err != nil {
		return types.Summary{}, err
	}
	return types.Summary{Topic: req.Topic, Length: length, SummaryMD: md}, nil
}

func (s *service) fromTopic(ctx context.Context, topic, length string) (string, error) {
	prompt, err := prompts.Build(prompts.PromptSummaryTopic, prompts.Input{
		Topic:        topic,
		Length:       length,
		BulletTarget: bulletTargets[length],
	})
	if err != nil {
		return "", err
	}
	return s.complete(ctx, prompt)
}

// fromText runs a map step over chunks of the source text and a reduce
// step over the partial summaries.
func (s *service) fromText(ctx context.Context, topic, text, length string) (string, error) {
	text = capText(text, inputCaps[length])
	chunks := chunkText(text, chunkSize, chunkOverlap)

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		prompt, err := prompts.Build(prompts.PromptSummaryChunk, prompts.Input{
			Topic: topic,
			Text:  chunk,
		})
		if err != nil {
			return "", err
		}
		partial, err := s.complete(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, partial)
	}
	return s.reduce(ctx, topic, length, partials)
}

func (s *service) reduce(ctx context.Context, topic, length string, partials []string) (string, error) {
	prompt, err := prompts.Build(prompts.PromptSummaryReduce, prompts.Input{
		Topic:        topic,
		Length:       length,
		BulletTarget: bulletTargets[length],
		Partials:     strings.Join(partials, "\n\n---\n\n"),
	})
	if err != nil {
		return "", err
	}
	return s.complete(ctx, prompt)
}

func (s *service) complete(ctx context.Context, prompt prompts.Prompt) (string, error) {
	raw, err := s.ai.Complete(ctx, prompt.Messages())
	if err != nil {
		return "", fmt.Errorf("%w: %v", pkgerrors.ErrGenerationUnavailable, err)
	}
	return strings.TrimSpace(raw), nil
}

// capText truncates to at most max runes, matching chunkText's units.
func capText(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// chunkText splits text into windows of at most size runes with the
// given overlap between consecutive windows.
func chunkText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}
	step := size - overlap
	if step <= 0 {
		step = size
	}
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
