package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulavia/aulavia-backend/internal/agent"
	"github.com/aulavia/aulavia-backend/internal/history"
	"github.com/aulavia/aulavia-backend/internal/http/response"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
)

type AskHandler struct {
	log        *logger.Logger
	dispatcher agent.Dispatcher
	history    history.Store
}

func NewAskHandler(log *logger.Logger, dispatcher agent.Dispatcher, store history.Store) *AskHandler {
	return &AskHandler{
		log:        log.With("handler", "AskHandler"),
		dispatcher: dispatcher,
		history:    store,
	}
}

type askRequest struct {
	Query string `json:"query" binding:"required"`
}

func (h *AskHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	res := h.dispatcher.Dispatch(c.Request.Context(), req.Query)

	switch res.Kind {
	case agent.KindExam:
		recordEvent(c.Request.Context(), h.log, h.history, clientID(c), "exam", res.Exam.Title, res.Exam)
	case agent.KindConceptMap:
		recordEvent(c.Request.Context(), h.log, h.history, clientID(c), "concept_map", req.Query, res.ConceptMap)
	case agent.KindLessonPlan:
		recordEvent(c.Request.Context(), h.log, h.history, clientID(c), "lesson_plan", res.LessonPlan.Topic, res.LessonPlan)
	}

	response.RespondOK(c, res)
}
