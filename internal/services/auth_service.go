package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("token is invalid or expired")

type AuthService struct {
	db      *gorm.DB
	cfg     *config.Config
	users   *UserService
	metrics *metrics.Registry
}

func NewAuthService(db *gorm.DB, cfg *config.Config, users *UserService, m *metrics.Registry) *AuthService {
	return &AuthService{
		db:      db,
		cfg:     cfg,
		users:   users,
		metrics: m,
	}
}

// Login authenticates by email and password and issues a token pair.
func (s *AuthService) Login(ctx context.Context, req *dto.TokenRequest) (*dto.TokenPair, error) {
	user, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			s.metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		case errors.Is(err, ErrInactiveUser):
			s.metrics.AuthFailuresTotal.WithLabelValues("inactive").Inc()
		}
		return nil, err
	}
	return s.IssuePair(ctx, user)
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenPair, error) {
	user, err := s.users.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.IssuePair(ctx, user)
}

func (s *AuthService) IssuePair(ctx context.Context, user *models.User) (*dto.TokenPair, error) {
	access, err := s.sign(user, TokenTypeAccess, s.cfg.JWTAccessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issueRefresh(s.db.WithContext(ctx), user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a live refresh token for a new access token. With
// rotation on, the refresh token is revoked and a new one returned.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*dto.AccessResponse, error) {
	claims, err := s.ParseToken(raw, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	stored, err := s.liveRefresh(ctx, claims)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", stored.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive() {
		s.metrics.AuthFailuresTotal.WithLabelValues("inactive").Inc()
		return nil, ErrInactiveUser
	}

	access, err := s.sign(&user, TokenTypeAccess, s.cfg.JWTAccessExpiry)
	if err != nil {
		return nil, err
	}
	resp := &dto.AccessResponse{Access: access}
	if s.cfg.JWTRotateRefresh {
		// Only the caller that flips revoked gets the new token.
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.RefreshToken{}).
				Where("id = ? AND revoked = ?", stored.ID, false).
				Update("revoked", true)
			if res.Error != nil {
				return fmt.Errorf("revoke refresh token: %w", res.Error)
			}
			if res.RowsAffected != 1 {
				return ErrInvalidToken
			}
			refresh, err := s.issueRefresh(tx, &user)
			resp.Refresh = refresh
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Verify checks the signature and expiry of any issued token. Refresh
// tokens must also not be revoked.
func (s *AuthService) Verify(ctx context.Context, raw string) error {
	claims, err := s.ParseToken(raw, "")
	if err != nil {
		return err
	}
	if claims["token_type"] == TokenTypeRefresh {
		_, err = s.liveRefresh(ctx, claims)
	}
	return err
}

// Blacklist revokes a refresh token.
func (s *AuthService) Blacklist(ctx context.Context, raw string) error {
	claims, err := s.ParseToken(raw, TokenTypeRefresh)
	if err != nil {
		return err
	}
	stored, err := s.liveRefresh(ctx, claims)
	if err != nil {
		return err
	}
	return s.revoke(ctx, stored)
}

// ParseToken validates a signed token. A non-empty wantType also requires
// the token_type claim to match.
func (s *AuthService) ParseToken(raw string, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		s.metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if wantType != "" && claims["token_type"] != wantType {
		s.metrics.AuthFailuresTotal.WithLabelValues("wrong_token_type").Inc()
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) sign(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	token, _, err := s.signWithID(user, tokenType, ttl)
	return token, err
}

func (s *AuthService) signWithID(user *models.User, tokenType string, ttl time.Duration) (string, string, error) {
	now := time.Now()
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"token_type": tokenType,
		"user_id":    user.ID.String(),
		"email":      user.Email,
		"role":       string(user.Role),
		"jti":        jti,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	s.metrics.TokensIssuedTotal.WithLabelValues(tokenType).Inc()
	return signed, jti, nil
}

// issueRefresh signs a refresh token for user and stores its record through db.
func (s *AuthService) issueRefresh(db *gorm.DB, user *models.User) (string, error) {
	signed, jti, err := s.signWithID(user, TokenTypeRefresh, s.cfg.JWTRefreshExpiry)
	if err != nil {
		return "", err
	}
	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(jti),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return signed, nil
}

// liveRefresh returns the stored record of an unrevoked, unexpired refresh token.
func (s *AuthService) liveRefresh(ctx context.Context, claims jwt.MapClaims) (*models.RefreshToken, error) {
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, ErrInvalidToken
	}
	var stored models.RefreshToken
	err := s.db.WithContext(ctx).
		Where("token_hash = ? AND revoked = ?", hashToken(jti), false).
		First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.AuthFailuresTotal.WithLabelValues("revoked").Inc()
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}
	return &stored, nil
}

func (s *AuthService) revoke(ctx context.Context, t *models.RefreshToken) error {
	if err := s.db.WithContext(ctx).Model(t).Update("revoked", true).Error; err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
