package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/aulavia/aulavia-backend/internal/engine/conceptmap"
	"github.com/aulavia/aulavia-backend/internal/engine/exam"
	"github.com/aulavia/aulavia-backend/internal/engine/lessonplan"
	"github.com/aulavia/aulavia-backend/internal/engine/summary"
	"github.com/aulavia/aulavia-backend/internal/platform/brave"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
	"github.com/aulavia/aulavia-backend/internal/platform/sendgrid"
	"github.com/aulavia/aulavia-backend/internal/retrieval"
)

// RawQuerier runs an arbitrary SQL statement, returning its outcome as
// text for the reasoning loop.
type RawQuerier interface {
	RawQuery(ctx context.Context, query string) (string, error)
}

// Tools carries the collaborators the dispatcher can reach. Nil fields
// disable the corresponding tool.
type Tools struct {
	Exam       exam.Service
	ConceptMap conceptmap.Service
	LessonPlan lessonplan.Service
	Summary    summary.Service
	Searcher   retrieval.Searcher
	Web        brave.Client
	Email      sendgrid.Client
	DB         RawQuerier
}

// toolOutcome is either an observation fed back into the loop or a
// direct result that ends the conversation.
type toolOutcome struct {
	observation string
	direct      *Result
}

func observe(text string) toolOutcome  { return toolOutcome{observation: text} }
func direct(res Result) toolOutcome    { return toolOutcome{direct: &res} }
func observeErr(err error) toolOutcome { return toolOutcome{observation: "Errore: " + err.Error()} }

type toolbox struct {
	deps Tools
}

func newToolbox(deps Tools) *toolbox { return &toolbox{deps: deps} }

type toolSpec struct {
	name      string
	desc      string
	available func(*toolbox) bool
}

var toolSpecs = []toolSpec{
	{"search_documents", `cerca nei documenti caricati; args: {"query": string}`,
		func(t *toolbox) bool { return t.deps.Searcher != nil }},
	{"generate_exam", `genera un esame strutturato; args: {"topic": string, "count": int, "difficulty": string, "subject": string}`,
		func(t *toolbox) bool { return t.deps.Exam != nil }},
	{"generate_concept_map", `genera una mappa concettuale; args: {"topic": string}`,
		func(t *toolbox) bool { return t.deps.ConceptMap != nil }},
	{"generate_lesson_plan", `genera un piano di lezioni; args: {"subject": string, "topic": string, "grade": string}`,
		func(t *toolbox) bool { return t.deps.LessonPlan != nil }},
	{"summarize", `riassume un argomento in markdown; args: {"topic": string, "length": "short"|"medium"|"long"}`,
		func(t *toolbox) bool { return t.deps.Summary != nil }},
	{"web_search", `cerca sul web; args: {"query": string}`,
		func(t *toolbox) bool { return t.deps.Web != nil }},
	{"search_images", `cerca immagini sul web; args: {"query": string}`,
		func(t *toolbox) bool { return t.deps.Web != nil }},
	{"send_email", `invia una email; args: {"to": string, "subject": string, "body": string}`,
		func(t *toolbox) bool { return t.deps.Email != nil }},
	{"run_sql", `esegue una query SQL sul database della cronologia; args: {"query": string}`,
		func(t *toolbox) bool { return t.deps.DB != nil }},
}

func (t *toolbox) systemPrompt() string {
	var b strings.Builder
	b.WriteString("Sei un assistente didattico. Rispondi sempre in italiano.\n")
	b.WriteString("Per ogni turno rispondi con un singolo oggetto JSON, senza altro testo:\n")
	b.WriteString(`- per usare uno strumento: {"tool": "<nome>", "args": {...}}` + "\n")
	b.WriteString(`- per dare la risposta finale: {"tool": "final", "answer": "<testo>"}` + "\n\n")
	b.WriteString("Strumenti disponibili:\n")
	for _, spec := range toolSpecs {
		if spec.available(t) {
			fmt.Fprintf(&b, "- %s: %s\n", spec.name, spec.desc)
		}
	}
	return b.String()
}

func (t *toolbox) invoke(ctx context.Context, log *logger.Logger, name string, args map[string]any) toolOutcome {
	switch name {
	case "search_documents":
		return t.searchDocuments(ctx, args)
	case "generate_exam":
		return t.generateExam(ctx, log, args)
	case "generate_concept_map":
		return t.generateConceptMap(ctx, log, args)
	case "generate_lesson_plan":
		return t.generateLessonPlan(ctx, log, args)
	case "summarize":
		return t.summarize(ctx, log, args)
	case "web_search":
		return t.webSearch(ctx, args)
	case "search_images":
		return t.searchImages(ctx, args)
	case "send_email":
		return t.sendEmail(ctx, args)
	case "run_sql":
		return t.runSQL(ctx, args)
	default:
		return observe(fmt.Sprintf("Strumento sconosciuto: %q. Usa solo gli strumenti elencati.", name))
	}
}

func (t *toolbox) searchDocuments(ctx context.Context, args map[string]any) toolOutcome {
	if t.deps.Searcher == nil {
		return observe("La ricerca nei documenti non è disponibile.")
	}
	query := stringArg(args, "query")
	if query == "" {
		return observe(`L'argomento "query" è obbligatorio.`)
	}
	passages, err := t.deps.Searcher.Search(ctx, query, retrieval.DefaultTopK)
	if err != nil {
		return observeErr(err)
	}
	if len(passages) == 0 {
		return observe("Nessun documento pertinente trovato.")
	}
	return observe(retrieval.FormatContext(passages))
}

func (t *toolbox) generateExam(ctx context.Context, log *logger.Logger, args map[string]any) toolOutcome {
	if t.deps.Exam == nil {
		return observe("La generazione di esami non è disponibile.")
	}
	res, err := t.deps.Exam.Generate(ctx, exam.GenerateRequest{
		Topic:      stringArg(args, "topic"),
		Count:      intArg(args, "count"),
		Difficulty: stringArg(args, "difficulty"),
		Subject:    stringArg(args, "subject"),
	})
	if err != nil {
		log.Error("exam tool failed", "error", err)
		return direct(errorResult(genericErrorText))
	}
	return direct(Result{Kind: KindExam, Exam: &res})
}

func (t *toolbox) generateConceptMap(ctx context.Context, log *logger.Logger, args map[string]any) toolOutcome {
	if t.deps.ConceptMap == nil {
		return observe("La generazione di mappe concettuali non è disponibile.")
	}
	res, err := t.deps.ConceptMap.Generate(ctx, conceptmap.GenerateRequest{
		Topic: stringArg(args, "topic"),
	})
	if err != nil {
		log.Error("concept map tool failed", "error", err)
		return direct(errorResult(genericErrorText))
	}
	return direct(Result{Kind: KindConceptMap, ConceptMap: &res})
}

func (t *toolbox) generateLessonPlan(ctx context.Context, log *logger.Logger, args map[string]any) toolOutcome {
	if t.deps.LessonPlan == nil {
		return observe("La generazione di piani di lezione non è disponibile.")
	}
	res, err := t.deps.LessonPlan.Generate(ctx, lessonplan.GenerateRequest{
		Subject: stringArg(args, "subject"),
		Topic:   stringArg(args, "topic"),
		Grade:   stringArg(args, "grade"),
	})
	if err != nil {
		log.Error("lesson plan tool failed", "error", err)
		return direct(errorResult(genericErrorText))
	}
	return direct(Result{Kind: KindLessonPlan, LessonPlan: &res})
}

func (t *toolbox) summarize(ctx context.Context, log *logger.Logger, args map[string]any) toolOutcome {
	if t.deps.Summary == nil {
		return observe("La generazione di riassunti non è disponibile.")
	}
	res, err := t.deps.Summary.Generate(ctx, summary.GenerateRequest{
		Topic:  stringArg(args, "topic"),
		Length: stringArg(args, "length"),
	})
	if err != nil {
		log.Error("summary tool failed", "error", err)
		return direct(errorResult(genericErrorText))
	}
	return direct(textResult(res.SummaryMD))
}

func (t *toolbox) webSearch(ctx context.Context, args map[string]any) toolOutcome {
	if t.deps.Web == nil {
		return observe("La ricerca web non è disponibile.")
	}
	query := stringArg(args, "query")
	if query == "" {
		return observe(`L'argomento "query" è obbligatorio.`)
	}
	out, err := t.deps.Web.SearchWeb(ctx, query, 5)
	if err != nil {
		return observeErr(err)
	}
	return observe(out)
}

func (t *toolbox) searchImages(ctx context.Context, args map[string]any) toolOutcome {
	if t.deps.Web == nil {
		return observe("La ricerca di immagini non è disponibile.")
	}
	query := stringArg(args, "query")
	if query == "" {
		return observe(`L'argomento "query" è obbligatorio.`)
	}
	out, err := t.deps.Web.SearchImages(ctx, query, 5)
	if err != nil {
		return observeErr(err)
	}
	return observe(out)
}

func (t *toolbox) sendEmail(ctx context.Context, args map[string]any) toolOutcome {
	if t.deps.Email == nil {
		return observe("L'invio di email non è disponibile.")
	}
	to := stringArg(args, "to")
	subject := stringArg(args, "subject")
	body := stringArg(args, "body")
	if to == "" || subject == "" || body == "" {
		return observe(`Gli argomenti "to", "subject" e "body" sono obbligatori.`)
	}
	if _, err := t.deps.Email.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: to}},
		Subject: subject,
		Text:    body,
	}); err != nil {
		return observeErr(err)
	}
	return observe("Email inviata a " + to + ".")
}

func (t *toolbox) runSQL(ctx context.Context, args map[string]any) toolOutcome {
	if t.deps.DB == nil {
		return observe("L'accesso al database non è disponibile.")
	}
	query := stringArg(args, "query")
	if query == "" {
		return observe(`L'argomento "query" è obbligatorio.`)
	}
	out, err := t.deps.DB.RawQuery(ctx, query)
	if err != nil {
		return observeErr(err)
	}
	return observe(out)
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
