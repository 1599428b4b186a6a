package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "wayfarer/backend/pkg/errors"
)

// statusForKind maps the error taxonomy onto HTTP status codes.
// Conflicts surface as 400 to match the original API contract.
func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindConflict:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates a service error into a JSON error response.
// Internal details only leak in development mode.
func (s *Server) respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := statusForKind(kind)

	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.JSON(status, gin.H{"error": apperrors.PublicMessage(err, s.cfg.IsDevelopment())})
}
