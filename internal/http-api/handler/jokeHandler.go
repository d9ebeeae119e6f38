package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jokehub/internal/http-api/dto"
	"jokehub/internal/http-api/middleware"
	"jokehub/internal/http-api/repository"
	"jokehub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type JokeHandler struct {
	svc service.JokeService
}

func NewJokeHandler(svc service.JokeService) *JokeHandler {
	return &JokeHandler{svc: svc}
}

// RegisterRoutes wires the joke endpoints. public carries optional auth (the
// listing works anonymously), authed requires a valid token.
func (h *JokeHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("", h.List)
	public.GET("/:joke_id", h.Get)

	authed.POST("", h.Create)
	authed.PATCH("/:joke_id", h.Update)
	authed.DELETE("/:joke_id", h.Delete)
	authed.POST("/:joke_id/used", h.ToggleUsed)
	authed.POST("/:joke_id/funny-rate", h.Rate)
}

// List handles GET /api/jokes with the filters in query parameters.
func (h *JokeHandler) List(c *gin.Context) {
	filters := repository.JokeFilters{
		Scope:           repository.ScopePublic,
		FilterFunnyRate: -1,
		UsageStatus:     repository.UsageAll,
	}

	if s := strings.TrimSpace(c.Query("scope")); s != "" {
		filters.Scope = repository.Scope(s)
	}

	// categories are comma-separated
	if catsStr := strings.TrimSpace(c.Query("categories")); catsStr != "" {
		parts := strings.Split(catsStr, ",")
		filters.SelectedCategories = make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				filters.SelectedCategories = append(filters.SelectedCategories, trimmed)
			}
		}
	}

	if frStr := strings.TrimSpace(c.Query("funny_rate")); frStr != "" {
		fr, err := strconv.Atoi(frStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid funny_rate parameter"})
			return
		}
		filters.FilterFunnyRate = fr
	}

	if u := strings.TrimSpace(c.Query("usage")); u != "" {
		filters.UsageStatus = repository.UsageStatus(u)
	}

	filters.Search = strings.TrimSpace(c.Query("q"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.svc.List(ctx, filters, middleware.UserID(c), c.Query("cursor"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.PaginatedJokesResponse{
		Data:       make([]dto.JokeResponse, 0, len(result.Jokes)),
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	}
	for _, j := range result.Jokes {
		resp.Data = append(resp.Data, dto.FromModelToJokeResponse(j))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JokeHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	j, err := h.svc.GetByID(ctx, c.Param("joke_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if j == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "joke not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToJokeResponse(*j))
}

func (h *JokeHandler) Create(c *gin.Context) {
	var in dto.CreateJokeDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	j, err := h.svc.Create(ctx, in.ToInput(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToJokeResponse(*j))
}

func (h *JokeHandler) Update(c *gin.Context) {
	var in dto.UpdateJokeDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	j, err := h.svc.Update(ctx, c.Param("joke_id"), in.ToPatch(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToJokeResponse(*j))
}

func (h *JokeHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("joke_id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *JokeHandler) ToggleUsed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	j, err := h.svc.ToggleUsed(ctx, c.Param("joke_id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToJokeResponse(*j))
}

// Rate handles the owner's quick rating (funny_rate), distinct from the
// per-user ratings under /ratings.
func (h *JokeHandler) Rate(c *gin.Context) {
	var in struct {
		FunnyRate *int `json:"funny_rate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	j, err := h.svc.Rate(ctx, c.Param("joke_id"), *in.FunnyRate, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToJokeResponse(*j))
}
