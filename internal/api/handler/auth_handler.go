package handler

import (
	"net/http"

	"critichub/internal/api/dto"
	"critichub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/register", h.Register)
	router.POST("/token", h.Token)
	router.POST("/refresh", h.Refresh)
}

// Register starts the passwordless exchange: a confirmation code is sent to
// the address and the address is echoed back.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	// binding errors fall through to the empty-email check below so the
	// response always identifies the field
	_ = c.ShouldBindJSON(&req)
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, dto.FieldError{FieldName: "email"})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{Email: user.Email})
}

// Token finishes the exchange: (email, confirmation_code) in, access token
// out. Every expected failure names the offending field.
// POST /api/v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	_ = c.ShouldBindJSON(&req)
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, dto.FieldError{FieldName: "email"})
		return
	}
	if req.ConfirmationCode == "" {
		c.JSON(http.StatusBadRequest, dto.FieldError{FieldName: "confirmation_code"})
		return
	}

	accessToken, _, err := h.authService.IssueToken(c.Request.Context(), req.Email, req.ConfirmationCode)
	switch err {
	case nil:
	case service.ErrUnknownEmail:
		c.JSON(http.StatusBadRequest, dto.FieldError{FieldName: "email"})
		return
	case service.ErrBadConfirmationCode:
		c.JSON(http.StatusBadRequest, dto.FieldError{FieldName: "confirmation_code"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: accessToken})
}

// Refresh exchanges a persisted refresh token for a new access token.
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   900,
	})
}
