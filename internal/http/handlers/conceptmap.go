package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulavia/aulavia-backend/internal/engine/conceptmap"
	"github.com/aulavia/aulavia-backend/internal/history"
	"github.com/aulavia/aulavia-backend/internal/http/response"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
)

type ConceptMapHandler struct {
	log     *logger.Logger
	maps    conceptmap.Service
	history history.Store
}

func NewConceptMapHandler(log *logger.Logger, maps conceptmap.Service, store history.Store) *ConceptMapHandler {
	return &ConceptMapHandler{
		log:     log.With("handler", "ConceptMapHandler"),
		maps:    maps,
		history: store,
	}
}

type generateConceptMapRequest struct {
	Topic    string `json:"topic" binding:"required"`
	MaxNodes int    `json:"max_nodes"`
}

func (h *ConceptMapHandler) GenerateConceptMap(c *gin.Context) {
	var req generateConceptMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	res, err := h.maps.Generate(c.Request.Context(), conceptmap.GenerateRequest{
		Topic:    req.Topic,
		MaxNodes: req.MaxNodes,
	})
	if err != nil {
		h.log.Error("GenerateConceptMap failed", "topic", req.Topic, "error", err)
		response.RespondEngineError(c, err)
		return
	}

	recordEvent(c.Request.Context(), h.log, h.history, clientID(c), "concept_map", req.Topic, res)
	response.RespondOK(c, res)
}
