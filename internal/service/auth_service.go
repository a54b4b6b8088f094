package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tubequiz/internal/cache"
	"tubequiz/internal/config"
	"tubequiz/internal/domain"
	"tubequiz/internal/dto"
	"tubequiz/internal/logger"
	"tubequiz/internal/util"
	"tubequiz/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, user *domain.User, err error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error)
	RefreshToken(ctx context.Context, refreshTokenString string) (newAccessToken, newRefreshToken string, err error)
	Logout(ctx context.Context, refreshTokenString string) error
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

type authServiceImpl struct {
	userRepo  domain.UserRepository
	sessions  domain.Cache
	jwtConfig config.JWTConfig
	validator *validation.Validator
}

// NewAuthService creates a new instance of AuthService. Refresh tokens are
// only redeemable while their id is present in the session store, which is
// what makes logout effective server-side.
func NewAuthService(userRepo domain.UserRepository, sessions domain.Cache, jwtConfig config.JWTConfig) (AuthService, error) {
	if len(jwtConfig.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		sessions:  sessions,
		jwtConfig: jwtConfig,
		validator: validation.NewValidator(),
	}, nil
}

// Register creates a new account. Duplicate usernames and emails are
// reported as validation errors, same as any other bad input.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	appLogger := logger.Get()

	if errs := s.validator.ValidateRegisterRequest(req); len(errs) > 0 {
		return nil, errs
	}

	existing, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, domain.NewInternalError("failed to check username", err)
	}
	if existing != nil {
		return nil, domain.ValidationErrors{domain.NewInvalidFieldError("username", "is already taken")}
	}

	existing, err = s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, domain.ValidationErrors{domain.NewInvalidFieldError("email", "is already registered")}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := &domain.User{
		ID:           util.NewULID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, domain.NewInternalError("failed to create user", err)
	}

	appLogger.Info("New user registered", zap.String("userID", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
// Unknown usernames and wrong passwords produce the same error.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (string, string, *domain.User, error) {
	appLogger := logger.Get()

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", nil, domain.NewInternalError("failed to fetch user", err)
	}
	if user == nil {
		return "", "", nil, domain.NewUnauthorizedError("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		appLogger.Warn("Failed login attempt", zap.String("username", username))
		return "", "", nil, domain.NewUnauthorizedError("invalid username or password")
	}

	accessToken, refreshToken, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return "", "", nil, err
	}

	appLogger.Info("User logged in", zap.String("userID", user.ID))
	return accessToken, refreshToken, user, nil
}

// CreateJWT signs a token of the given type for the user. Refresh tokens
// carry a ULID token id so they can be individually revoked.
func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	token, _, err := s.createToken(user, ttl, tokenType)
	return token, err
}

func (s *authServiceImpl) createToken(user *domain.User, ttl time.Duration, tokenType string) (string, string, error) {
	now := time.Now()
	tokenID := util.NewULID()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.SecretKey))
	return signed, tokenID, err
}

// ValidateJWT parses and verifies a token, returning its claims.
func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

// RefreshToken redeems a refresh token for a new pair. The old token is
// rotated out of the session store so it cannot be replayed.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	appLogger := logger.Get()

	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return "", "", domain.NewUnauthorizedError("invalid refresh token")
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", "", domain.NewUnauthorizedError("not a refresh token")
	}

	if _, err := s.sessions.Get(ctx, cache.RefreshTokenKey(claims.ID)); err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			appLogger.Warn("Refresh token not in session store (revoked or expired)", zap.String("userID", claims.UserID))
			return "", "", domain.NewUnauthorizedError("refresh token has been revoked")
		}
		return "", "", domain.NewInternalError("session store unavailable", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", "", domain.NewInternalError("failed to fetch user for refresh", err)
	}
	if user == nil {
		return "", "", domain.NewNotFoundError(fmt.Sprintf("User %s not found for refresh token", claims.UserID))
	}

	if err := s.sessions.Delete(ctx, cache.RefreshTokenKey(claims.ID)); err != nil {
		appLogger.Warn("Failed to rotate old refresh token", zap.Error(err))
	}

	newAccessToken, newRefreshToken, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return "", "", err
	}

	appLogger.Info("JWT token refreshed", zap.String("userID", user.ID))
	return newAccessToken, newRefreshToken, nil
}

// Logout revokes the refresh token. Access tokens simply age out; the
// refresh token is what matters for long-lived sessions.
func (s *authServiceImpl) Logout(ctx context.Context, refreshTokenString string) error {
	if refreshTokenString == "" {
		return nil
	}
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		// An unparsable or expired refresh token has nothing to revoke.
		return nil
	}
	if err := s.sessions.Delete(ctx, cache.RefreshTokenKey(claims.ID)); err != nil {
		return domain.NewInternalError("failed to revoke refresh token", err)
	}
	logger.Get().Info("Refresh token revoked", zap.String("userID", claims.UserID))
	return nil
}

func (s *authServiceImpl) AccessTokenTTL() time.Duration  { return s.jwtConfig.AccessTokenTTL }
func (s *authServiceImpl) RefreshTokenTTL() time.Duration { return s.jwtConfig.RefreshTokenTTL }

func (s *authServiceImpl) issueTokenPair(ctx context.Context, user *domain.User) (string, string, error) {
	accessToken, _, err := s.createToken(user, s.jwtConfig.AccessTokenTTL, TokenTypeAccess)
	if err != nil {
		return "", "", domain.NewInternalError("failed to create access token", err)
	}
	refreshToken, refreshID, err := s.createToken(user, s.jwtConfig.RefreshTokenTTL, TokenTypeRefresh)
	if err != nil {
		return "", "", domain.NewInternalError("failed to create refresh token", err)
	}

	// The refresh token's id must be registered before the token is usable.
	if err := s.sessions.Set(ctx, cache.RefreshTokenKey(refreshID), user.ID, s.jwtConfig.RefreshTokenTTL); err != nil {
		return "", "", domain.NewInternalError("failed to store refresh session", err)
	}

	return accessToken, refreshToken, nil
}
