package handler

import (
	"errors"
	"net/http"
	"strconv"

	"critichub/internal/api/dto"
	"critichub/internal/api/permission"
	"critichub/internal/api/service"

	"github.com/gin-gonic/gin"
)

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// deny answers a failed write-permission check: anonymous requesters get
// 401, authenticated ones 403.
func deny(c *gin.Context, actor *permission.Actor) {
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
}

// handleServiceError maps service sentinels onto the error taxonomy:
// validation → 400, denied → 403, absent → 404, everything else → 500.
func handleServiceError(c *gin.Context, actor *permission.Actor, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrGenreNotFound),
		errors.Is(err, service.ErrTitleNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrUnknownGenre):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRoleNotEditable):
		c.JSON(http.StatusBadRequest, dto.FieldError{FieldName: "role"})
	case errors.Is(err, service.ErrPermissionDenied):
		deny(c, actor)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
