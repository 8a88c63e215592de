package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulavia/aulavia-backend/internal/engine/lessonplan"
	"github.com/aulavia/aulavia-backend/internal/history"
	"github.com/aulavia/aulavia-backend/internal/http/response"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
)

type LessonPlanHandler struct {
	log     *logger.Logger
	plans   lessonplan.Service
	history history.Store
}

func NewLessonPlanHandler(log *logger.Logger, plans lessonplan.Service, store history.Store) *LessonPlanHandler {
	return &LessonPlanHandler{
		log:     log.With("handler", "LessonPlanHandler"),
		plans:   plans,
		history: store,
	}
}

type generatePlanRequest struct {
	Subject       string `json:"subject"`
	Topic         string `json:"topic" binding:"required"`
	Grade         string `json:"grade"`
	LessonMinutes int    `json:"lesson_minutes"`
	GlobalGoals   string `json:"global_goals"`
}

func (h *LessonPlanHandler) GeneratePlan(c *gin.Context) {
	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	res, err := h.plans.Generate(c.Request.Context(), lessonplan.GenerateRequest{
		Subject:       req.Subject,
		Topic:         req.Topic,
		Grade:         req.Grade,
		LessonMinutes: req.LessonMinutes,
		GlobalGoals:   req.GlobalGoals,
	})
	if err != nil {
		h.log.Error("GeneratePlan failed", "topic", req.Topic, "error", err)
		response.RespondEngineError(c, err)
		return
	}

	recordEvent(c.Request.Context(), h.log, h.history, clientID(c), "lesson_plan", req.Topic, res)
	response.RespondOK(c, res)
}
