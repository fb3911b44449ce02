package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"critichub/internal/api/models"
	"critichub/internal/api/permission"
	"critichub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type stubAuthService struct {
	mock.Mock
}

func (s *stubAuthService) Register(ctx context.Context, email string) (*models.User, error) {
	args := s.Called(ctx, email)
	return nil, args.Error(1)
}

func (s *stubAuthService) IssueToken(ctx context.Context, email, code string) (string, string, error) {
	args := s.Called(ctx, email, code)
	return args.String(0), args.String(1), args.Error(2)
}

func (s *stubAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := s.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (s *stubAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := s.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

type stubUserRepo struct {
	mock.Mock
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := s.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) GetOrCreateByEmail(ctx context.Context, email, username string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	return nil, 0, nil
}
func (s *stubUserRepo) Save(ctx context.Context, user *models.User) error { return nil }
func (s *stubUserRepo) Delete(ctx context.Context, id string) error       { return nil }

func echoActor(c *gin.Context) {
	actor := Actor(c)
	if actor == nil {
		c.JSON(http.StatusOK, gin.H{"actor": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"actor": actor.ID, "staff": actor.Staff})
}

func serve(handlerChain gin.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", handlerChain, echoActor)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	t.Run("missing header is 401", func(t *testing.T) {
		w := serve(RequireAuth(new(stubAuthService), new(stubUserRepo)), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header is 401", func(t *testing.T) {
		w := serve(RequireAuth(new(stubAuthService), new(stubUserRepo)), "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token is 401", func(t *testing.T) {
		auth := new(stubAuthService)
		auth.On("ValidateToken", "bad").Return(nil, service.ErrInvalidToken)

		w := serve(RequireAuth(auth, new(stubUserRepo)), "Bearer bad")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("actor reflects the current user record, not the token claims", func(t *testing.T) {
		auth := new(stubAuthService)
		auth.On("ValidateToken", "good").Return(&service.Claims{UserID: "u1", Role: "user"}, nil)

		// the store says moderator now, even though the token was minted
		// before the promotion
		users := new(stubUserRepo)
		users.On("FindByID", mock.Anything, "u1").Return(&models.User{
			ID: "u1", Username: "alice", Role: models.RoleModerator, IsStaff: true,
		}, nil)

		w := serve(RequireAuth(auth, users), "Bearer good")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"staff":true`)
	})

	t.Run("deleted user is 401 even with a valid token", func(t *testing.T) {
		auth := new(stubAuthService)
		auth.On("ValidateToken", "orphan").Return(&service.Claims{UserID: "gone"}, nil)

		users := new(stubUserRepo)
		users.On("FindByID", mock.Anything, "gone").Return(nil, gorm.ErrRecordNotFound)

		w := serve(RequireAuth(auth, users), "Bearer orphan")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Run("no header passes through as anonymous", func(t *testing.T) {
		w := serve(OptionalAuth(new(stubAuthService), new(stubUserRepo)), "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"actor":null`)
	})

	t.Run("a supplied but invalid token is still rejected", func(t *testing.T) {
		auth := new(stubAuthService)
		auth.On("ValidateToken", "bad").Return(nil, service.ErrInvalidToken)

		w := serve(OptionalAuth(auth, new(stubUserRepo)), "Bearer bad")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token resolves the actor", func(t *testing.T) {
		auth := new(stubAuthService)
		auth.On("ValidateToken", "good").Return(&service.Claims{UserID: "u1"}, nil)

		users := new(stubUserRepo)
		users.On("FindByID", mock.Anything, "u1").Return(&models.User{ID: "u1", Role: models.RoleUser}, nil)

		w := serve(OptionalAuth(auth, users), "Bearer good")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"actor":"u1"`)
	})
}

func TestActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unset key yields nil", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Nil(t, Actor(c))
	})

	t.Run("set actor round-trips", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("actor", &permission.Actor{ID: "u1"})
		actor := Actor(c)
		if assert.NotNil(t, actor) {
			assert.Equal(t, "u1", actor.ID)
		}
	})
}
