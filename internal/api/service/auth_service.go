package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"critichub/internal/api/models"
	"critichub/internal/api/repository"
	"critichub/internal/config"
	"critichub/internal/mailer"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUnknownEmail        = errors.New("no user with that email")
	ErrBadConfirmationCode = errors.New("confirmation code invalid or expired")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredRefreshToken = errors.New("refresh token expired")
)

// Claims is the access-token payload.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// AuthService runs the two-step passwordless exchange: Register issues a
// confirmation code to an email, IssueToken trades (email, code) for a
// bearer token pair.
type AuthService interface {
	Register(ctx context.Context, email string) (*models.User, error)
	IssueToken(ctx context.Context, email, code string) (accessToken, refreshToken string, err error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	codes            repository.ConfirmationCodeStore
	mail             mailer.Mailer
	logger           *slog.Logger
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	codes repository.ConfirmationCodeStore,
	mail mailer.Mailer,
	logger *slog.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		codes:            codes,
		mail:             mail,
		logger:           logger,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
	}
}

// Register gets or creates the user for the email in one upsert, stores a
// fresh one-time code and mails it. Mail delivery is best-effort: a failed
// send is logged and the call still succeeds.
func (s *authService) Register(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetOrCreateByEmail(ctx, email, usernameFromEmail(email))
	if repository.IsUniqueViolation(err) {
		// synthesized username collided with an existing account;
		// retry once with a random suffix
		user, err = s.userRepo.GetOrCreateByEmail(ctx, email, suffixedUsername(email))
	}
	if err != nil {
		return nil, fmt.Errorf("get or create user: %w", err)
	}

	code, err := generateConfirmationCode()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}
	if err := s.codes.Store(ctx, email, code); err != nil {
		return nil, err
	}

	if err := s.mail.SendConfirmationCode(ctx, email, code); err != nil {
		s.logger.Warn("confirmation code delivery failed", "email", email, "error", err)
	}

	return user, nil
}

// IssueToken validates the (email, code) pair, consumes the code and mints
// a refresh/access pair. The refresh token is persisted.
func (s *authService) IssueToken(ctx context.Context, email, code string) (string, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", ErrUnknownEmail
	}
	if err != nil {
		return "", "", err
	}

	if err := s.codes.Consume(ctx, email, code); err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) || errors.Is(err, repository.ErrCodeMismatch) {
			return "", "", ErrBadConfirmationCode
		}
		return "", "", err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		Type:     "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}
	return refreshToken.Token, nil
}

func (s *authService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		return "", ErrInvalidToken
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		if err := s.refreshTokenRepo.Delete(ctx, refreshToken.ID); err != nil {
			s.logger.Warn("expired refresh token cleanup failed", "error", err)
		}
		return "", ErrExpiredRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return "", err
	}
	return s.generateAccessToken(user)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// generateConfirmationCode draws a uniform 6-digit code.
func generateConfirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// usernameFromEmail synthesizes a username from the local part.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		local = "user"
	}
	return local
}

func suffixedUsername(email string) string {
	return usernameFromEmail(email) + "-" + uuid.New().String()[:8]
}
