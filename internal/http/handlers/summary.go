package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulavia/aulavia-backend/internal/engine/summary"
	"github.com/aulavia/aulavia-backend/internal/history"
	"github.com/aulavia/aulavia-backend/internal/http/response"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
)

type SummaryHandler struct {
	log       *logger.Logger
	summaries summary.Service
	history   history.Store
}

func NewSummaryHandler(log *logger.Logger, summaries summary.Service, store history.Store) *SummaryHandler {
	return &SummaryHandler{
		log:       log.With("handler", "SummaryHandler"),
		summaries: summaries,
		history:   store,
	}
}

type summarizeRequest struct {
	Topic  string `json:"topic"`
	Length string `json:"length"`
	Text   string `json:"text"`
}

func (h *SummaryHandler) Summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Topic == "" && req.Text == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", nil)
		return
	}

	res, err := h.summaries.Generate(c.Request.Context(), summary.GenerateRequest{
		Topic:  req.Topic,
		Length: req.Length,
		Text:   req.Text,
	})
	if err != nil {
		h.log.Error("Summarize failed", "topic", req.Topic, "error", err)
		response.RespondEngineError(c, err)
		return
	}

	recordEvent(c.Request.Context(), h.log, h.history, clientID(c), "summary", req.Topic, res)
	response.RespondOK(c, res)
}
