package handler

import (
	"net/http"

	"jokehub/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps an error's kind to an HTTP status. Handlers never inspect
// error message text.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindPermission:
		status = http.StatusForbidden
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindTransport:
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
