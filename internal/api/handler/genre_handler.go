package handler

import (
	"net/http"

	"critichub/internal/api/dto"
	"critichub/internal/api/middleware"
	"critichub/internal/api/permission"
	"critichub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	genreService service.GenreService
}

func NewGenreHandler(genreService service.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// Same capability set as categories: list/create/delete, no retrieve.
func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup) {
	genres := router.Group("/genres")
	{
		genres.GET("", h.List)
		genres.POST("", h.Create)
		genres.GET("/:slug", h.Retrieve)
		genres.DELETE("/:slug", h.Delete)
	}
}

// GET /api/v1/genres
func (h *GenreHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	resp, err := h.genreService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	if !permission.AdminOrReadOnly(c.Request.Method, actor) {
		deny(c, actor)
		return
	}

	var req dto.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.genreService.Create(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /api/v1/genres/:slug
func (h *GenreHandler) Retrieve(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
}

// DELETE /api/v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)
	if !permission.AdminOrReadOnly(c.Request.Method, actor) {
		deny(c, actor)
		return
	}

	if err := h.genreService.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.Status(http.StatusNoContent)
}
