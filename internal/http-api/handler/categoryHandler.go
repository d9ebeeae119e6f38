package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"jokehub/internal/http-api/dto"
	"jokehub/internal/http-api/middleware"
	"jokehub/internal/http-api/models"
	"jokehub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/stream", h.Stream)
}

func (h *CategoryHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.GetAll(ctx, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoriesFromModels(list))
}

// Stream pushes full category snapshots as server-sent events. Every change
// to the caller's category set delivers a complete replacement list; the
// stream ends on the first transport error.
func (h *CategoryHandler) Stream(c *gin.Context) {
	userID := middleware.UserID(c)

	updates := make(chan []models.Category, 4)
	errs := make(chan error, 1)

	unsubscribe := h.svc.Subscribe(userID,
		func(cats []models.Category) {
			pushLatestSnapshot(updates, cats)
		},
		func(err error) {
			select {
			case errs <- err:
			default:
			}
		},
	)
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case cats := <-updates:
			c.SSEvent("categories", dto.CategoriesFromModels(cats))
			return true
		case err := <-errs:
			c.SSEvent("error", gin.H{"error": err.Error()})
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// pushLatestSnapshot enqueues without blocking, evicting the oldest queued
// snapshot when full. A slow client loses intermediate states but always ends
// on the current one.
func pushLatestSnapshot(updates chan []models.Category, cats []models.Category) {
	for {
		select {
		case updates <- cats:
			return
		default:
			select {
			case <-updates:
			default:
			}
		}
	}
}
