package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/aulavia/aulavia-backend/internal/pkg/errors"
)

// RespondEngineError maps the generation error taxonomy onto HTTP
// statuses: provider outages are 503, unusable model output is 502,
// anything else a plain 500.
func RespondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrGenerationUnavailable),
		errors.Is(err, pkgerrors.ErrJudgmentUnavailable),
		errors.Is(err, pkgerrors.ErrRetrievalUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "upstream_unavailable", err)
	case errors.Is(err, pkgerrors.ErrNoStructuredPayload),
		errors.Is(err, pkgerrors.ErrMalformedPayload),
		errors.Is(err, pkgerrors.ErrSchemaViolation):
		RespondError(c, http.StatusBadGateway, "invalid_model_output", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
