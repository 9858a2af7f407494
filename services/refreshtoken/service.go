package refreshtoken

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTokenNotFound         = errors.New("refresh token not found")
	ErrTokenExpired          = errors.New("refresh token expired")
	ErrTokenGenerationFailed = errors.New("failed to generate secure token")
)

type Service struct {
	db     *gorm.DB
	config *config.RefreshTokenConfig
	logger *logging.Service
}

func NewService(db *gorm.DB, cfg *config.RefreshTokenConfig, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

func (s *Service) generateSecureToken() (string, error) {
	bytes := make([]byte, s.config.TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// Only the SHA-256 of a token is stored; the plaintext exists once, in the
// response that hands it to the client.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *Service) Generate(userID uint) (*TokenData, error) {
	token, err := s.generateSecureToken()
	if err != nil {
		s.logger.Error("failed to generate refresh token", zap.Error(err))
		return nil, ErrTokenGenerationFailed
	}

	now := time.Now()
	record := RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(s.config.Expiry),
		CreatedAt: now,
		LastUsed:  now,
	}

	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	s.logger.Info("refresh token issued",
		zap.Uint("user_id", userID),
		zap.Time("expires_at", record.ExpiresAt))

	return &TokenData{
		Token:     token,
		TokenID:   record.ID,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

func (s *Service) Validate(tokenString string) (*RefreshToken, error) {
	var record RefreshToken
	err := s.db.Where("token_hash = ?", hashToken(tokenString)).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to validate refresh token: %w", err)
	}

	if time.Now().After(record.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	return &record, nil
}

// Rotate consumes the presented token and issues a replacement. The old row
// is deleted, so a replayed token reads as not found.
func (s *Service) Rotate(tokenString string) (*TokenData, uint, error) {
	record, err := s.Validate(tokenString)
	if err != nil {
		return nil, 0, err
	}

	if err := s.db.Delete(record).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to revoke rotated refresh token: %w", err)
	}

	fresh, err := s.Generate(record.UserID)
	if err != nil {
		return nil, 0, err
	}

	return fresh, record.UserID, nil
}

func (s *Service) RevokeAllForUser(userID uint) error {
	res := s.db.Where("user_id = ?", userID).Delete(&RefreshToken{})
	if res.Error != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", res.Error)
	}
	return nil
}

func (s *Service) CleanupExpired() (int64, error) {
	res := s.db.Where("expires_at < ?", time.Now()).Delete(&RefreshToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired refresh tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
