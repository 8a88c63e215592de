package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/aulavia/aulavia-backend/internal/engine/exam"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
	"github.com/aulavia/aulavia-backend/internal/platform/openai"
	"github.com/aulavia/aulavia-backend/internal/structured"
)

const (
	DefaultMaxTurns = 6

	genericErrorText = "Si è verificato un errore interno. Riprova tra qualche istante."
)

// quickExamRe short-circuits plain "make me a quiz about X" requests
// straight to the exam engine, skipping the reasoning loop.
var quickExamRe = regexp.MustCompile(`(?i)\b(?:esame|quiz|test)\b\s+(?:di|su|in)\s+([\p{L}0-9][\p{L}0-9' ]*)`)

type Dispatcher interface {
	Dispatch(ctx context.Context, query string) Result
}

type dispatcher struct {
	log      *logger.Logger
	ai       openai.Client
	tools    *toolbox
	maxTurns int
}

func NewDispatcher(log *logger.Logger, ai openai.Client, tools Tools, maxTurns int) Dispatcher {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &dispatcher{
		log:      log.With("service", "Dispatcher"),
		ai:       ai,
		tools:    newToolbox(tools),
		maxTurns: maxTurns,
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return errorResult("La richiesta è vuota.")
	}

	if m := quickExamRe.FindStringSubmatch(query); m != nil && d.tools.deps.Exam != nil {
		topic := strings.TrimSpace(m[1])
		d.log.Info("quick exam route", "topic", topic)
		res, err := d.tools.deps.Exam.Generate(ctx, exam.GenerateRequest{Topic: topic})
		if err != nil {
			d.log.Error("quick exam generation failed", "topic", topic, "error", err)
			return errorResult(genericErrorText)
		}
		return Result{Kind: KindExam, Exam: &res}
	}

	return d.runLoop(ctx, query)
}

// decision is the model's per-turn output: either a tool invocation or
// a final free-text answer.
type decision struct {
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args"`
	Answer string         `json:"answer"`
}

func (d *dispatcher) runLoop(ctx context.Context, query string) Result {
	messages := []openai.Message{
		{Role: openai.RoleSystem, Content: d.tools.systemPrompt()},
		{Role: openai.RoleUser, Content: query},
	}

	for turn := 0; turn < d.maxTurns; turn++ {
		raw, err := d.ai.Complete(ctx, messages)
		if err != nil {
			d.log.Error("dispatcher completion failed", "turn", turn, "error", err)
			return errorResult(genericErrorText)
		}

		dec, ok := parseDecision(raw)
		if !ok {
			// A reply with no parseable decision is taken as the answer
			// itself.
			return finalResult(strings.TrimSpace(raw))
		}
		if dec.Tool == "" || dec.Tool == "final" {
			if strings.TrimSpace(dec.Answer) == "" {
				return finalResult(strings.TrimSpace(raw))
			}
			return finalResult(strings.TrimSpace(dec.Answer))
		}

		outcome := d.tools.invoke(ctx, d.log, dec.Tool, dec.Args)
		if outcome.direct != nil {
			return *outcome.direct
		}

		d.log.Info("tool observed", "tool", dec.Tool, "turn", turn)
		messages = append(messages,
			openai.Message{Role: openai.RoleAssistant, Content: raw},
			openai.Message{Role: openai.RoleUser, Content: fmt.Sprintf("Osservazione (%s):\n%s", dec.Tool, outcome.observation)},
		)
	}

	d.log.Warn("dispatcher turn budget exhausted", "max_turns", d.maxTurns)
	return errorResult("Non sono riuscito a completare la richiesta entro il numero massimo di passaggi.")
}

// finalResult types a final answer that embeds an entity payload.
// Models sometimes emit the whole entity instead of calling the tool;
// clients expect it typed, not quoted back as prose.
func finalResult(answer string) Result {
	payload, err := structured.ExtractObject(answer)
	if err != nil {
		return textResult(answer)
	}
	if _, hasNodes := payload["nodeDataArray"]; hasNodes {
		if _, hasLinks := payload["linkDataArray"]; hasLinks {
			if cm, err := structured.CoerceConceptMap(payload); err == nil {
				return Result{Kind: KindConceptMap, ConceptMap: &cm}
			}
		}
	}
	if _, hasTitle := payload["title"]; hasTitle {
		if _, hasQuestions := payload["questions"]; hasQuestions {
			if ex, err := structured.CoerceExam(payload); err == nil {
				return Result{Kind: KindExam, Exam: &ex}
			}
		}
	}
	return textResult(answer)
}

func parseDecision(raw string) (decision, bool) {
	payload, err := structured.ExtractObject(raw)
	if err != nil {
		return decision{}, false
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return decision{}, false
	}
	var dec decision
	if err := json.Unmarshal(b, &dec); err != nil {
		return decision{}, false
	}
	if dec.Tool == "" && dec.Answer == "" {
		return decision{}, false
	}
	return dec, true
}
