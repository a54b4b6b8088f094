package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tubequiz/internal/domain"
	"tubequiz/internal/dto"
	"tubequiz/internal/middleware"
	"tubequiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	register     func(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	login        func(ctx context.Context, username, password string) (string, string, *domain.User, error)
	refreshToken func(ctx context.Context, refreshTokenString string) (string, string, error)
	logout       func(ctx context.Context, refreshTokenString string) error
}

func (s *stubAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	return s.register(ctx, req)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, string, *domain.User, error) {
	return s.login(ctx, username, password)
}

func (s *stubAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	return nil, service.ErrInvalidJWTToken
}

func (s *stubAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	return "", nil
}

func (s *stubAuthService) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	return s.refreshToken(ctx, refreshTokenString)
}

func (s *stubAuthService) Logout(ctx context.Context, refreshTokenString string) error {
	return s.logout(ctx, refreshTokenString)
}

func (s *stubAuthService) AccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (s *stubAuthService) RefreshTokenTTL() time.Duration { return 7 * 24 * time.Hour }

func newAuthTestApp(svc *stubAuthService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := NewAuthHandler(svc)

	group := app.Group("/api/auth")
	group.Post("/register", h.Register)
	group.Post("/login", h.Login)
	group.Post("/refresh", h.RefreshToken)
	group.Post("/logout", h.Logout)
	return app
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegisterHandler(t *testing.T) {
	svc := &stubAuthService{
		register: func(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
			assert.Equal(t, "alice", req.Username)
			return &domain.User{
				ID:        "user-1",
				Username:  req.Username,
				Email:     req.Email,
				CreatedAt: time.Now(),
			}, nil
		},
	}
	app := newAuthTestApp(svc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"longenough"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body dto.UserResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "user-1", body.ID)
	assert.Equal(t, "alice", body.Username)
	assert.Empty(t, resp.Cookies(), "registration must not log the user in")
}

func TestRegisterHandler_ValidationFailure(t *testing.T) {
	svc := &stubAuthService{
		register: func(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
			return nil, domain.ValidationErrors{domain.NewMissingFieldError("password")}
		},
	}
	app := newAuthTestApp(svc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@example.com"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginHandler_SetsCookies(t *testing.T) {
	svc := &stubAuthService{
		login: func(ctx context.Context, username, password string) (string, string, *domain.User, error) {
			return "access-token-value", "refresh-token-value", &domain.User{
				ID:        "user-1",
				Username:  username,
				Email:     "alice@example.com",
				CreatedAt: time.Now(),
			}, nil
		},
	}
	app := newAuthTestApp(svc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"longenough"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	access := cookieByName(resp, middleware.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "access-token-value", access.Value)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, "/", access.Path)

	refresh := cookieByName(resp, middleware.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "refresh-token-value", refresh.Value)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, "/api/auth", refresh.Path)

	var body dto.UserResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "user-1", body.ID)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	svc := &stubAuthService{
		login: func(ctx context.Context, username, password string) (string, string, *domain.User, error) {
			return "", "", nil, domain.NewUnauthorizedError("invalid username or password")
		},
	}
	app := newAuthTestApp(svc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"wrong"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}

func TestRefreshHandler(t *testing.T) {
	svc := &stubAuthService{
		refreshToken: func(ctx context.Context, refreshTokenString string) (string, string, error) {
			assert.Equal(t, "old-refresh", refreshTokenString)
			return "new-access", "new-refresh", nil
		},
	}
	app := newAuthTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "old-refresh"})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	access := cookieByName(resp, middleware.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "new-access", access.Value)

	refresh := cookieByName(resp, middleware.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "new-refresh", refresh.Value)
}

func TestRefreshHandler_MissingCookie(t *testing.T) {
	app := newAuthTestApp(&stubAuthService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutHandler_ClearsCookies(t *testing.T) {
	revoked := ""
	svc := &stubAuthService{
		logout: func(ctx context.Context, refreshTokenString string) error {
			revoked = refreshTokenString
			return nil
		},
	}
	app := newAuthTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "the-refresh-token"})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "the-refresh-token", revoked)

	access := cookieByName(resp, middleware.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Empty(t, access.Value)
	assert.True(t, access.Expires.Before(time.Now()))

	refresh := cookieByName(resp, middleware.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Empty(t, refresh.Value)
}
