package handler

import (
	"net/http"
	"strconv"

	"critichub/internal/api/dto"
	"critichub/internal/api/middleware"
	"critichub/internal/api/permission"
	"critichub/internal/api/repository"
	"critichub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	titleService service.TitleService
}

func NewTitleHandler(titleService service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup) {
	titles := router.Group("/titles")
	{
		titles.GET("", h.List)
		titles.POST("", h.Create)
		titles.GET("/:title_id", h.Get)
		titles.PATCH("/:title_id", h.Update)
		titles.DELETE("/:title_id", h.Delete)
	}
}

func titleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return 0, false
	}
	return id, true
}

// List filters by category slug, genre slug, name substring and exact year.
// GET /api/v1/titles?category=&genre=&name=&year=
func (h *TitleHandler) List(c *gin.Context) {
	filter := repository.TitleFilter{
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Name:     c.Query("name"),
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year filter"})
			return
		}
		filter.Year = &year
	}

	page, pageSize := pagination(c)
	resp, err := h.titleService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := titleID(c)
	if !ok {
		return
	}

	resp, err := h.titleService.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	if !permission.AdminOrReadOnly(c.Request.Method, actor) {
		deny(c, actor)
		return
	}

	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.titleService.Create(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)
	if !permission.AdminOrReadOnly(c.Request.Method, actor) {
		deny(c, actor)
		return
	}

	id, ok := titleID(c)
	if !ok {
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.titleService.Update(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)
	if !permission.AdminOrReadOnly(c.Request.Method, actor) {
		deny(c, actor)
		return
	}

	id, ok := titleID(c)
	if !ok {
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.Status(http.StatusNoContent)
}
