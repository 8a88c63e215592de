package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/aulavia/aulavia-backend/internal/http/handlers"
	httpMW "github.com/aulavia/aulavia-backend/internal/http/middleware"
)

type RouterConfig struct {
	ServiceName string

	AskHandler        *httpH.AskHandler
	ExamHandler       *httpH.ExamHandler
	ConceptMapHandler *httpH.ConceptMapHandler
	LessonPlanHandler *httpH.LessonPlanHandler
	SummaryHandler    *httpH.SummaryHandler
	HistoryHandler    *httpH.HistoryHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	if cfg.AskHandler != nil {
		r.POST("/ask", cfg.AskHandler.Ask)
	}
	if cfg.ExamHandler != nil {
		r.POST("/generate_exam", cfg.ExamHandler.GenerateExam)
		r.POST("/grade_exam", cfg.ExamHandler.GradeExam)
	}
	if cfg.ConceptMapHandler != nil {
		r.POST("/generate_concept_map", cfg.ConceptMapHandler.GenerateConceptMap)
	}
	if cfg.LessonPlanHandler != nil {
		r.POST("/generate_plan", cfg.LessonPlanHandler.GeneratePlan)
	}
	if cfg.SummaryHandler != nil {
		r.POST("/summarize", cfg.SummaryHandler.Summarize)
	}
	if cfg.HistoryHandler != nil {
		r.GET("/history", cfg.HistoryHandler.ListEvents)
		r.GET("/history/:id", cfg.HistoryHandler.GetEvent)
	}

	return r
}
