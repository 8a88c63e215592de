package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aulavia/aulavia-backend/internal/history"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
)

const headerClientID = "X-Client-Id"

func clientID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(headerClientID))
}

// recordEvent persists a generated entity to the history log. Failures
// are logged and swallowed; history must never break a generation
// response.
func recordEvent(ctx context.Context, log *logger.Logger, store history.Store, client, kind, title string, data any) {
	if store == nil {
		return
	}
	if _, err := store.Save(ctx, client, kind, title, data); err != nil {
		log.Warn("history record failed", "kind", kind, "error", err)
	}
}
