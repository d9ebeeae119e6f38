package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"jokehub/internal/http-api/middleware"
	"jokehub/internal/http-api/service"
	"jokehub/internal/importer"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	svc service.ImportService
}

func NewImportHandler(svc service.ImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.Import)
}

type importJokeDTO struct {
	Text      string `json:"text"`
	Category  string `json:"category"`
	FunnyRate int    `json:"funny_rate"`
}

// Import handles POST /api/jokes/import. The body is either a raw CSV file
// (Content-Type: text/csv) or a JSON array of joke entries.
func (h *ImportHandler) Import(c *gin.Context) {
	var rows []importer.Row

	contentType := c.ContentType()
	switch {
	case strings.Contains(contentType, "text/csv"):
		parsed, err := importer.Parse(c.Request.Body)
		if err != nil {
			respondError(c, err)
			return
		}
		rows = parsed
	default:
		var in []importJokeDTO
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rows = make([]importer.Row, 0, len(in))
		for _, e := range in {
			rows = append(rows, importer.Row{Text: e.Text, Category: e.Category, FunnyRate: e.FunnyRate})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := h.svc.ImportBatch(ctx, rows, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
