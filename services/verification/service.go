package verification

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/codetube-labs/codetube/config"
	"github.com/codetube-labs/codetube/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MsgInvalidCode     = "Invalid verification code"
	MsgCodeUsed        = "Code already used"
	MsgTooManyAttempts = "Too many failed attempts"
	MsgCodeExpired     = "Code expired"
	MsgCodeVerified    = "Code verified"
)

// Notifier delivers an issued code to its recipient. Implementations must
// not block the caller: delivery failure is the notifier's problem, never
// the issuer's.
type Notifier interface {
	NotifyCode(email, code string, purpose Purpose, expiresIn time.Duration)
}

// Result carries the outcome of a verification attempt. Business-rule
// failures are values, not errors; only infrastructure failures surface as
// Go errors from Verify.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Record  *VerificationCode `json:"-"`
}

type Service struct {
	cfg      *config.VerificationConfig
	db       *gorm.DB
	logger   *logging.Service
	notifier Notifier

	now          func() time.Time
	generateCode func() (string, error)
}

func NewService(cfg *config.VerificationConfig, db *gorm.DB, logger *logging.Service) *Service {
	s := &Service{
		cfg:    cfg,
		db:     db,
		logger: logger,
		now:    time.Now,
	}
	s.generateCode = generateNumericCode
	return s
}

func (s *Service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// NormalizeEmail lowercases and trims an address; every email key in the
// codes table goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateNumericCode draws a 6-digit code uniformly from [100000, 999999].
// The leading digit is non-zero by construction.
func generateNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// Issue replaces any existing codes for the (email, purpose) pair with a
// fresh one. The delete is unconditional; still-valid prior codes are
// discarded too. Notification is handed off to the notifier and cannot fail
// the issuance.
func (s *Service) Issue(email string, purpose Purpose) (*VerificationCode, error) {
	email = NormalizeEmail(email)

	if err := s.db.Where("email = ? AND purpose = ?", email, purpose).
		Delete(&VerificationCode{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete prior verification codes: %w", err)
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, err
	}

	record := &VerificationCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(s.cfg.TTL),
		Used:      false,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create verification code: %w", err)
	}

	// Operator visibility: the code is short-lived and this mirrors how
	// deliverability problems get debugged in practice.
	s.logger.Info("verification code issued",
		zap.String("email", email),
		zap.String("purpose", string(purpose)),
		zap.String("code", code),
		zap.Time("expires_at", record.ExpiresAt))

	if s.notifier != nil {
		s.notifier.NotifyCode(email, code, purpose, s.cfg.TTL)
	}

	return record, nil
}

// Verify performs a state-checked consumption of a code.
//
// The lookup matches email, code and purpose exactly, so a wrong code is
// indistinguishable from a never-issued one. A wrong-code submission burns
// an attempt on the live record for the pair, if one exists. On success the
// matched record is consumed with a conditional update (guarding against
// concurrent double-spend) and every code for the pair is purged.
func (s *Service) Verify(email, code string, purpose Purpose) (*Result, error) {
	email = NormalizeEmail(email)

	var record VerificationCode
	err := s.db.Where("email = ? AND code = ? AND purpose = ?", email, code, purpose).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.recordFailedAttempt(email, purpose)
		return &Result{Success: false, Message: MsgInvalidCode}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up verification code: %w", err)
	}

	now := s.now()
	switch record.StatusAt(now, s.cfg.MaxAttempts) {
	case StatusConsumed:
		return &Result{Success: false, Message: MsgCodeUsed}, nil
	case StatusAttemptsExhausted:
		return &Result{Success: false, Message: MsgTooManyAttempts}, nil
	case StatusExpired:
		return &Result{Success: false, Message: MsgCodeExpired}, nil
	}

	res := s.db.Model(&VerificationCode{}).
		Where("id = ? AND used = ?", record.ID, false).
		Updates(map[string]any{"used": true, "used_at": now})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to consume verification code: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// A concurrent request consumed it between our read and write.
		return &Result{Success: false, Message: MsgCodeUsed}, nil
	}
	record.Used = true
	record.UsedAt = &now

	// Purge, not single delete: concurrently issued siblings for the pair
	// die with the consumed code.
	if err := s.db.Where("email = ? AND purpose = ?", email, purpose).
		Delete(&VerificationCode{}).Error; err != nil {
		return nil, fmt.Errorf("failed to purge verification codes: %w", err)
	}

	s.logger.Info("verification code consumed",
		zap.String("email", email),
		zap.String("purpose", string(purpose)))

	return &Result{Success: true, Message: MsgCodeVerified, Record: &record}, nil
}

// recordFailedAttempt charges a wrong-code guess against the live code for
// the pair. Best effort; a failure here never changes the caller's answer.
func (s *Service) recordFailedAttempt(email string, purpose Purpose) {
	res := s.db.Model(&VerificationCode{}).
		Where("email = ? AND purpose = ? AND used = ? AND expires_at > ?",
			email, purpose, false, s.now()).
		UpdateColumn("attempt_count", gorm.Expr("attempt_count + 1"))
	if res.Error != nil {
		s.logger.Error("failed to record failed verification attempt",
			zap.Error(res.Error), zap.String("email", email))
	}
}

// CleanupExpired removes rows past their expiry. Nothing schedules this;
// normal operation relies on issue-time deletes and post-verify purges, and
// this exists for operators running one-off maintenance.
func (s *Service) CleanupExpired() (int64, error) {
	res := s.db.Where("expires_at < ?", s.now()).Delete(&VerificationCode{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired verification codes: %w", res.Error)
	}

	if res.RowsAffected > 0 {
		s.logger.Info("expired verification codes cleaned up",
			zap.Int64("codes_removed", res.RowsAffected))
	}
	return res.RowsAffected, nil
}
