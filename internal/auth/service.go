// Package auth issues and refreshes JWT token pairs for user profiles.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/config"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Service email/password authentication with redis-backed refresh tokens
type Service struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      *config.Config
	logger   *zap.Logger
}

func NewService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{userRepo: userRepo, rdb: rdb, cfg: cfg, logger: logger}
}

// TokenPair access + refresh token response
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login verifies credentials and issues a token pair
func (s *Service) Login(ctx context.Context, email, password string) (*entity.UserProfile, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if user.Status != "active" {
		return nil, nil, errors.New("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.Role == "" {
		// Legacy rows without a role: the email prefix convention decides
		// once, and the result is persisted so it never decides again.
		role := entity.RoleStaff
		if user.IsAdmin() {
			role = entity.RoleAdmin
		}
		s.logger.Info("backfilling role from email convention",
			zap.String("email", user.Email), zap.String("role", role))
		user.Role = role
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Warn("failed to persist backfilled role", zap.Error(err))
		}
	}

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Register creates a user profile with a bcrypt password hash
func (s *Service) Register(ctx context.Context, email, name, password, role string) (*entity.UserProfile, error) {
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if role == "" {
		role = entity.RoleStaff
	}
	if role != entity.RoleAdmin && role != entity.RoleStaff {
		return nil, errors.New("role must be admin or staff")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.UserProfile{
		ID:           uuid.New().String()[:32],
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) generateTokenPair(ctx context.Context, user *entity.UserProfile) (*TokenPair, error) {
	now := time.Now()
	jti := uuid.New().String()

	accessClaims := jwt.MapClaims{
		"sub":   user.ID,
		"uid":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"iss":   s.cfg.JWT.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWT.AccessTokenExpire).Unix(),
		"jti":   jti,
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshJti := uuid.New().String()
	refreshClaims := jwt.MapClaims{
		"sub":  user.ID,
		"type": "refresh",
		"iss":  s.cfg.JWT.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWT.RefreshTokenExpire).Unix(),
		"jti":  refreshJti,
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if s.rdb != nil {
		s.rdb.Set(ctx, "token:refresh:"+refreshJti, user.ID, s.cfg.JWT.RefreshTokenExpire)
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.cfg.JWT.AccessTokenExpire.Seconds()),
	}, nil
}

// RefreshToken rotates a refresh token into a new token pair
func (s *Service) RefreshToken(ctx context.Context, refreshTokenString string) (*TokenPair, error) {
	token, err := jwt.Parse(refreshTokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims["type"] != "refresh" {
		return nil, fmt.Errorf("invalid token type")
	}

	jti, _ := claims["jti"].(string)
	sub, _ := claims["sub"].(string)
	userID := sub
	if s.rdb != nil {
		userID, err = s.rdb.Get(ctx, "token:refresh:"+jti).Result()
		if err != nil {
			return nil, fmt.Errorf("refresh token expired or invalid")
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	// Rotation: the old token is dead the moment a new pair is issued.
	if s.rdb != nil {
		s.rdb.Del(ctx, "token:refresh:"+jti)
	}

	return s.generateTokenPair(ctx, user)
}

// GetCurrentUser returns the profile for an authenticated user ID
func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*entity.UserProfile, error) {
	return s.userRepo.FindByID(ctx, userID)
}
