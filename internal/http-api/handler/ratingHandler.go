package handler

import (
	"context"
	"net/http"
	"time"

	"jokehub/internal/http-api/dto"
	"jokehub/internal/http-api/middleware"
	"jokehub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RegisterRoutes registers rating-related routes under the jokes groups.
func (h *RatingHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/:joke_id/ratings", h.List)
	public.GET("/:joke_id/ratings/average", h.GetAverage)

	authed.POST("/:joke_id/ratings", h.Submit)
	authed.GET("/:joke_id/ratings/me", h.GetUserRating)
}

// Submit creates or updates the caller's rating for a joke
// POST /api/jokes/:joke_id/ratings
func (h *RatingHandler) Submit(c *gin.Context) {
	var req dto.CreateRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rating, err := h.ratingService.SubmitUserRating(ctx, c.Param("joke_id"), req.Rating, middleware.UserID(c), req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToRatingResponse(rating))
}

// List retrieves all ratings for a joke
// GET /api/jokes/:joke_id/ratings
func (h *RatingHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ratings, err := h.ratingService.GetJokeRatings(ctx, c.Param("joke_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		resp = append(resp, *dto.FromModelToRatingResponse(&ratings[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}

// GetAverage retrieves the average rating and count for a joke
// GET /api/jokes/:joke_id/ratings/average
func (h *RatingHandler) GetAverage(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	avg, count, err := h.ratingService.GetJokeAverageRating(ctx, c.Param("joke_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"average_rating": avg,
		"total_ratings":  count,
	})
}

// GetUserRating retrieves the caller's own rating for a joke
// GET /api/jokes/:joke_id/ratings/me
func (h *RatingHandler) GetUserRating(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rating, err := h.ratingService.GetUserRating(ctx, c.Param("joke_id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToRatingResponse(rating))
}
