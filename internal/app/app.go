package app

import (
	"context"
	"fmt"
	"os"

	"github.com/aulavia/aulavia-backend/internal/agent"
	"github.com/aulavia/aulavia-backend/internal/db"
	"github.com/aulavia/aulavia-backend/internal/engine/conceptmap"
	"github.com/aulavia/aulavia-backend/internal/engine/exam"
	"github.com/aulavia/aulavia-backend/internal/engine/lessonplan"
	"github.com/aulavia/aulavia-backend/internal/engine/summary"
	"github.com/aulavia/aulavia-backend/internal/history"
	httpx "github.com/aulavia/aulavia-backend/internal/http"
	httpH "github.com/aulavia/aulavia-backend/internal/http/handlers"
	"github.com/aulavia/aulavia-backend/internal/observability"
	"github.com/aulavia/aulavia-backend/internal/platform/brave"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
	"github.com/aulavia/aulavia-backend/internal/platform/openai"
	"github.com/aulavia/aulavia-backend/internal/platform/sendgrid"
	"github.com/aulavia/aulavia-backend/internal/retrieval"
)

type App struct {
	Log    *logger.Logger
	Cfg    Config
	Server *httpx.Server

	otelShutdown func(context.Context) error
}

// New wires the whole service. The generation provider is the only hard
// requirement; retrieval, history, web search and email degrade to
// disabled when their configuration is absent.
func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)
	otelShutdown := observability.InitTracing(ctx, log, observability.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	ai, err := openai.NewClient(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init openai client: %w", err)
	}

	// Retrieval is optional: without a reachable vector store every
	// engine generates from model knowledge alone.
	var searcher retrieval.Searcher
	if pool, poolErr := retrieval.NewPool(ctx, log); poolErr != nil {
		log.Warn("vector store unavailable, retrieval disabled", "error", poolErr)
	} else {
		searcher = retrieval.NewStore(log, pool, ai)
	}

	rdb := retrieval.NewRedisClient(ctx, log, cfg.RedisAddr)
	guidelines := retrieval.NewGuidelines(log, searcher, rdb, cfg.GuidelinesCacheTTL)

	var store history.Store
	if dbsvc, dbErr := db.NewService(log); dbErr != nil {
		log.Warn("history database unavailable, history disabled", "error", dbErr)
	} else if migErr := dbsvc.AutoMigrateAll(); migErr != nil {
		log.Warn("history migration failed, history disabled", "error", migErr)
	} else {
		store = history.NewStore(log, dbsvc.DB())
	}

	examSvc := exam.NewService(log, ai, guidelines)
	mapSvc := conceptmap.NewService(log, ai, searcher, cfg.ConceptMapMaxNodes)
	planSvc := lessonplan.NewService(log, ai, searcher)
	summarySvc := summary.NewService(log, ai)

	var web brave.Client
	if webClient, webErr := brave.NewFromEnv(log); webErr != nil {
		log.Warn("web search disabled", "error", webErr)
	} else {
		web = webClient
	}
	var email sendgrid.Client
	if emailClient, emailErr := sendgrid.NewFromEnv(log); emailErr != nil {
		log.Warn("email disabled", "error", emailErr)
	} else {
		email = emailClient
	}

	tools := agent.Tools{
		Exam:       examSvc,
		ConceptMap: mapSvc,
		LessonPlan: planSvc,
		Summary:    summarySvc,
		Searcher:   searcher,
		Web:        web,
		Email:      email,
	}
	if store != nil {
		tools.DB = store
	}
	dispatcher := agent.NewDispatcher(log, ai, tools, cfg.DispatcherMaxTurns)

	server := httpx.NewServer(httpx.RouterConfig{
		ServiceName:       cfg.ServiceName,
		AskHandler:        httpH.NewAskHandler(log, dispatcher, store),
		ExamHandler:       httpH.NewExamHandler(log, examSvc, store),
		ConceptMapHandler: httpH.NewConceptMapHandler(log, mapSvc, store),
		LessonPlanHandler: httpH.NewLessonPlanHandler(log, planSvc, store),
		SummaryHandler:    httpH.NewSummaryHandler(log, summarySvc, store),
		HistoryHandler:    historyHandlerOrNil(log, store),
		HealthHandler:     httpH.NewHealthHandler(),
	})

	return &App{
		Log:          log,
		Cfg:          cfg,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

func historyHandlerOrNil(log *logger.Logger, store history.Store) *httpH.HistoryHandler {
	if store == nil {
		return nil
	}
	return httpH.NewHistoryHandler(log, store)
}

func (a *App) Run() error {
	a.Log.Info("server listening", "addr", a.Cfg.Addr())
	return a.Server.Run(a.Cfg.Addr())
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
