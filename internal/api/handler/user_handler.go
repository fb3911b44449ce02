package handler

import (
	"net/http"

	"critichub/internal/api/dto"
	"critichub/internal/api/middleware"
	"critichub/internal/api/permission"
	"critichub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes mounts the self-profile endpoints and the admin-only
// directory. The directory is keyed by username and gated by the strictest
// policy: staff plus the admin role, moderators rejected.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/me", h.GetSelf)
		users.PATCH("/me", h.UpdateSelf)

		users.GET("", h.requireDirectoryAccess, h.List)
		users.POST("", h.requireDirectoryAccess, h.Create)
		users.GET("/:username", h.requireDirectoryAccess, h.Get)
		users.PATCH("/:username", h.requireDirectoryAccess, h.Update)
		users.DELETE("/:username", h.requireDirectoryAccess, h.Delete)
	}
}

func (h *UserHandler) requireDirectoryAccess(c *gin.Context) {
	actor := middleware.Actor(c)
	if !permission.AdminNotModerator(actor) {
		deny(c, actor)
		c.Abort()
		return
	}
	c.Next()
}

// GET /api/v1/users?search=<username>
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	resp, err := h.userService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	resp, err := h.userService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update may change the role; the staff flag is recomputed in the same
// write.
// PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.userService.UpdateByUsername(c.Request.Context(), c.Param("username"), req)
	if err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.DeleteByUsername(c.Request.Context(), c.Param("username")); err != nil {
		handleServiceError(c, middleware.Actor(c), err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSelf serves the requester's own record; the target comes from the
// session identity, never from the path.
// GET /api/v1/users/me
func (h *UserHandler) GetSelf(c *gin.Context) {
	actor := middleware.Actor(c)
	if actor == nil {
		deny(c, actor)
		return
	}

	resp, err := h.userService.GetSelf(c.Request.Context(), actor.ID)
	if err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateSelf rejects role changes; only the admin-facing endpoint may alter
// role or the staff flag.
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateSelf(c *gin.Context) {
	actor := middleware.Actor(c)
	if actor == nil {
		deny(c, actor)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.userService.UpdateSelf(c.Request.Context(), actor.ID, req)
	if err != nil {
		handleServiceError(c, actor, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
