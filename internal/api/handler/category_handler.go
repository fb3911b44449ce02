package handler

import (
	"net/http"

	"critichub/internal/api/dto"
	"critichub/internal/api/middleware"
	"critichub/internal/api/permission"
	"critichub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes wires the allowed-operations set for categories:
// collection list/create, delete by slug. Single-item retrieve is not part
// of the resource's capability set and answers 405.
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.List)
		categories.POST("", h.Create)
		categories.GET("/:slug", h.Retrieve)
		categories.DELETE("/:slug", h.Delete)
	}
}

// List supports exact-match name search via ?search=.
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	resp, err := h.categoryService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)
	if !permission.AdminOrReadOnly(c.Request.Method, actor) {
		deny(c, actor)
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /api/v1/categories/:slug
func (h *CategoryHandler) Retrieve(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
}

// DELETE /api/v1/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)
	if !permission.AdminOrReadOnly(c.Request.Method, actor) {
		deny(c, actor)
		return
	}

	if err := h.categoryService.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.Status(http.StatusNoContent)
}
