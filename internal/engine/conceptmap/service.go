package conceptmap

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
	DefaultMaxNodes = 14
	DefaultTopK     = 6
)

type GenerateRequest struct {
	Topic string
	// MaxNodes caps the pruned map size. Zero means the default cap;
	// negative disables pruning entirely.
	MaxNodes int
	TopK     int
}

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (types.ConceptMap, error)
}

type service struct {
	log      *logger.Logger
	ai       openai.Client
	searcher retrieval.Searcher
	maxNodes int
}

// NewService builds the engine. defaultMaxNodes is the prune cap applied
// to requests that leave MaxNodes at zero; non-positive falls back to
// DefaultMaxNodes.
func NewService(log *logger.Logger, ai openai.Client, searcher retrieval.Searcher, defaultMaxNodes int) Service {
	if defaultMaxNodes <= 0 {
		defaultMaxNodes = DefaultMaxNodes
	}
	return &service{
		log:      log.With("service", "ConceptMapService"),
		ai:       ai,
		searcher: searcher,
		maxNodes: defaultMaxNodes,
	}
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (types.ConceptMap, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return types.ConceptMap{}, fmt.Errorf("topic is required")
	}
	if req.MaxNodes == 0 {
		req.MaxNodes = s.maxNodes
	}
	if req.TopK <= 0 {
		req.TopK = DefaultTopK
	}

	contextText := ""
	if s.searcher != nil {
		passages, err := s.searcher.Search(ctx, req.Topic, req.TopK)
		if err != nil {
			// Retrieval is best effort here; the map degrades to model
			// knowledge of the topic.
			s.log.Warn("retrieval unavailable, generating without context", "topic", req.Topic, "error", err)
		} else {
			contextText = retrieval.FormatContext(passages)
		}
	}

	prompt, err := prompts.Build(prompts.PromptConceptMap, prompts.Input{
		Topic:   req.Topic,
		Context: contextText,
	})
	if err != nil {
		return types.ConceptMap{}, err
	}
	raw, err := s.ai.Complete(ctx, prompt.Messages())
	if err != nil {
		return types.ConceptMap{}, fmt.Errorf("%w: %v", pkgerrors.ErrGenerationUnavailable, err)
	}
	payload, err := structured.ExtractObject(raw)
	if err != nil {
		return types.ConceptMap{}, err
	}
	cm, err := structured.CoerceConceptMap(payload)
	if err != nil {
		return types.ConceptMap{}, err
	}

	pruned := Prune(cm, req.MaxNodes)
	s.log.Info("concept map generated", "topic", req.Topic,
		"nodes", len(pruned.NodeDataArray), "links", len(pruned.LinkDataArray))
	return pruned, nil
}
