package handler

import (
	"net/http"
	"strconv"

	"critichub/internal/api/dto"
	"critichub/internal/api/middleware"
	"critichub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Comments are doubly scoped: the review must belong to the title named in
// the path or every operation answers 404.
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/titles/:title_id/reviews/:review_id/comments")
	{
		comments.GET("", h.List)
		comments.POST("", h.Create)
		comments.GET("/:comment_id", h.Get)
		comments.PATCH("/:comment_id", h.Update)
		comments.DELETE("/:comment_id", h.Delete)
	}
}

func commentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return 0, false
	}
	return id, true
}

func commentScope(c *gin.Context) (tid, rid int64, ok bool) {
	tid, ok = titleID(c)
	if !ok {
		return 0, 0, false
	}
	rid, ok = reviewID(c)
	if !ok {
		return 0, 0, false
	}
	return tid, rid, true
}

// GET /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	tid, rid, ok := commentScope(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	resp, err := h.commentService.List(c.Request.Context(), tid, rid, page, pageSize)
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	tid, rid, ok := commentScope(c)
	if !ok {
		return
	}
	cid, ok := commentID(c)
	if !ok {
		return
	}

	resp, err := h.commentService.Get(c.Request.Context(), tid, rid, cid)
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	if actor == nil {
		deny(c, actor)
		return
	}

	tid, rid, ok := commentScope(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.commentService.Create(c.Request.Context(), actor.ID, tid, rid, req)
	if err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PATCH /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	tid, rid, ok := commentScope(c)
	if !ok {
		return
	}
	cid, ok := commentID(c)
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.Actor(c)
	resp, err := h.commentService.Update(c.Request.Context(), actor, tid, rid, cid, req)
	if err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	tid, rid, ok := commentScope(c)
	if !ok {
		return
	}
	cid, ok := commentID(c)
	if !ok {
		return
	}

	actor := middleware.Actor(c)
	if err := h.commentService.Delete(c.Request.Context(), actor, tid, rid, cid); err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.Status(http.StatusNoContent)
}
