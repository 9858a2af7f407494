package verification

import (
	"time"

	"gorm.io/gorm"
)

type Purpose string

const (
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
)

// Status is the read-time classification of a stored code. It is computed
// from the persisted fields rather than stored, so a row can drift from
// active to expired without a write.
type Status int

const (
	StatusActive Status = iota
	StatusConsumed
	StatusAttemptsExhausted
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusConsumed:
		return "consumed"
	case StatusAttemptsExhausted:
		return "attempts_exhausted"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

type VerificationCode struct {
	gorm.Model
	Email        string     `json:"email" gorm:"index;not null"`
	Code         string     `json:"-" gorm:"index;not null"`
	Purpose      Purpose    `json:"purpose" gorm:"index;not null"`
	AttemptCount int        `json:"attempt_count" gorm:"not null;default:0"`
	ExpiresAt    time.Time  `json:"expires_at" gorm:"not null"`
	Used         bool       `json:"used" gorm:"default:false"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}

// StatusAt classifies the record. Consumption wins over exhausted attempts,
// which wins over expiry; a record is active only when none of the three
// terminal conditions hold.
func (v *VerificationCode) StatusAt(now time.Time, maxAttempts int) Status {
	switch {
	case v.Used:
		return StatusConsumed
	case v.AttemptCount >= maxAttempts:
		return StatusAttemptsExhausted
	case !v.ExpiresAt.After(now):
		return StatusExpired
	default:
		return StatusActive
	}
}
