package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aulavia/aulavia-backend/internal/history"
	"github.com/aulavia/aulavia-backend/internal/http/response"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
)

type HistoryHandler struct {
	log   *logger.Logger
	store history.Store
}

func NewHistoryHandler(log *logger.Logger, store history.Store) *HistoryHandler {
	return &HistoryHandler{
		log:   log.With("handler", "HistoryHandler"),
		store: store,
	}
}

func (h *HistoryHandler) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := h.store.List(c.Request.Context(), clientID(c), limit)
	if err != nil {
		h.log.Error("ListEvents failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "history_unavailable", err)
		return
	}
	response.RespondOK(c, gin.H{"events": events})
}

func (h *HistoryHandler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	event, err := h.store.Get(c.Request.Context(), clientID(c), id)
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "event_not_found", err)
		return
	}
	response.RespondOK(c, event)
}
