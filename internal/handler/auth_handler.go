package handler

import (
	"time"

	"tubequiz/internal/domain"
	"tubequiz/internal/dto"
	"tubequiz/internal/logger"
	"tubequiz/internal/middleware"
	"tubequiz/internal/service"
	"tubequiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler serves the /api/auth routes. Tokens travel in HttpOnly
// cookies; response bodies never carry them.
type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validation.NewValidator(),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFieldError("body", "is not valid JSON")}
	}

	user, err := h.authService.Register(c.Context(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	})
}

// Login handles POST /api/auth/login. On success the access and refresh
// tokens are set as cookies.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFieldError("body", "is not valid JSON")}
	}
	if errs := h.validator.ValidateLoginRequest(&req); len(errs) > 0 {
		return errs
	}

	accessToken, refreshToken, user, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookies(c, accessToken, refreshToken)

	return c.Status(fiber.StatusOK).JSON(dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	})
}

// RefreshToken handles POST /api/auth/refresh using the refresh cookie.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshTokenString := c.Cookies(middleware.RefreshTokenCookie)
	if refreshTokenString == "" {
		return domain.NewUnauthorizedError("refresh token cookie is missing")
	}

	newAccessToken, newRefreshToken, err := h.authService.RefreshToken(c.Context(), refreshTokenString)
	if err != nil {
		return err
	}

	h.setTokenCookies(c, newAccessToken, newRefreshToken)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Tokens refreshed"})
}

// Logout handles POST /api/auth/logout. The refresh token is revoked
// server-side and both cookies are expired.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if userID, ok := c.Locals(middleware.UserIDKey).(string); ok && userID != "" {
		logger.Get().Info("User logout request", zap.String("userID", userID))
	}

	if err := h.authService.Logout(c.Context(), c.Cookies(middleware.RefreshTokenCookie)); err != nil {
		return err
	}

	h.clearTokenCookies(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logout successful"})
}

func (h *AuthHandler) setTokenCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Expires:  time.Now().Add(h.authService.AccessTokenTTL()),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    refreshToken,
		Expires:  time.Now().Add(h.authService.RefreshTokenTTL()),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/api/auth",
	})
}

func (h *AuthHandler) clearTokenCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{
		Name: middleware.AccessTokenCookie, Value: "", Expires: expired,
		HTTPOnly: true, Secure: c.Secure(), SameSite: "Lax", Path: "/",
	})
	c.Cookie(&fiber.Cookie{
		Name: middleware.RefreshTokenCookie, Value: "", Expires: expired,
		HTTPOnly: true, Secure: c.Secure(), SameSite: "Lax", Path: "/api/auth",
	})
}
