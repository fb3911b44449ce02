package handler

import (
	"net/http"
	"strconv"

	"critichub/internal/api/dto"
	"critichub/internal/api/middleware"
	"critichub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Reviews live under their title; the parent is resolved from the path on
// every operation.
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/titles/:title_id/reviews")
	{
		reviews.GET("", h.List)
		reviews.POST("", h.Create)
		reviews.GET("/:review_id", h.Get)
		reviews.PATCH("/:review_id", h.Update)
		reviews.DELETE("/:review_id", h.Delete)
	}
}

func reviewID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("review_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return 0, false
	}
	return id, true
}

// GET /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	id, ok := titleID(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	resp, err := h.reviewService.List(c.Request.Context(), id, page, pageSize)
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	tid, ok := titleID(c)
	if !ok {
		return
	}
	rid, ok := reviewID(c)
	if !ok {
		return
	}

	resp, err := h.reviewService.Get(c.Request.Context(), tid, rid)
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create attaches the requester as author; one review per (author, title).
// POST /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	if actor == nil {
		deny(c, actor)
		return
	}

	tid, ok := titleID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.reviewService.Create(c.Request.Context(), actor.ID, tid, req)
	if err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PATCH /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Update(c *gin.Context) {
	tid, ok := titleID(c)
	if !ok {
		return
	}
	rid, ok := reviewID(c)
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.Actor(c)
	resp, err := h.reviewService.Update(c.Request.Context(), actor, tid, rid, req)
	if err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	tid, ok := titleID(c)
	if !ok {
		return
	}
	rid, ok := reviewID(c)
	if !ok {
		return
	}

	actor := middleware.Actor(c)
	if err := h.reviewService.Delete(c.Request.Context(), actor, tid, rid); err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.Status(http.StatusNoContent)
}
