package handler

import (
	"context"
	"net/http"
	"time"

	"jokehub/internal/http-api/dto"
	"jokehub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type GenerateHandler struct {
	svc service.GenerationService
}

func NewGenerateHandler(svc service.GenerationService) *GenerateHandler {
	return &GenerateHandler{svc: svc}
}

func (h *GenerateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-joke", h.Generate)
	rg.POST("/explain-joke", h.Explain)
}

// Generate handles POST /api/generate-joke
func (h *GenerateHandler) Generate(c *gin.Context) {
	var in dto.GenerateJokeDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	joke, err := h.svc.GenerateJoke(ctx, in.TopicHint, in.PrefilledJokes, in.Model)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GenerateJokeResponse{JokeText: joke.JokeText, Category: joke.Category})
}

// Explain handles POST /api/explain-joke, streaming plain-text chunks as the
// provider produces them.
func (h *GenerateHandler) Explain(c *gin.Context) {
	var in dto.ExplainJokeDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 120*time.Second)
	defer cancel()

	wrote := false
	err := h.svc.ExplainJoke(ctx, in.JokeText, in.Model, func(chunk string) error {
		if !wrote {
			c.Header("Content-Type", "text/plain; charset=utf-8")
			c.Status(http.StatusOK)
			wrote = true
		}
		if _, err := c.Writer.WriteString(chunk); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		if !wrote {
			respondError(c, err)
		}
		// once streaming has started the client just sees a truncated body
		return
	}
	if !wrote {
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Status(http.StatusOK)
	}
}
