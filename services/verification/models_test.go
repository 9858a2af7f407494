package verification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationCode_StatusAt(t *testing.T) {
	now := time.Now()
	maxAttempts := 3

	t.Run("active when unused, attempts remain, not expired", func(t *testing.T) {
		code := &VerificationCode{ExpiresAt: now.Add(time.Minute)}
		assert.Equal(t, StatusActive, code.StatusAt(now, maxAttempts))
	})

	t.Run("consumed wins over every other condition", func(t *testing.T) {
		used := time.Now()
		code := &VerificationCode{
			Used:         true,
			UsedAt:       &used,
			AttemptCount: 5,
			ExpiresAt:    now.Add(-time.Hour),
		}
		assert.Equal(t, StatusConsumed, code.StatusAt(now, maxAttempts))
	})

	t.Run("attempts exhausted wins over expiry", func(t *testing.T) {
		code := &VerificationCode{
			AttemptCount: 3,
			ExpiresAt:    now.Add(-time.Hour),
		}
		assert.Equal(t, StatusAttemptsExhausted, code.StatusAt(now, maxAttempts))
	})

	t.Run("expired exactly at the boundary", func(t *testing.T) {
		code := &VerificationCode{ExpiresAt: now}
		assert.Equal(t, StatusExpired, code.StatusAt(now, maxAttempts))
	})

	t.Run("expired after TTL elapses", func(t *testing.T) {
		code := &VerificationCode{ExpiresAt: now.Add(-time.Second)}
		assert.Equal(t, StatusExpired, code.StatusAt(now, maxAttempts))
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "active", StatusActive.String())
	assert.Equal(t, "consumed", StatusConsumed.String())
	assert.Equal(t, "attempts_exhausted", StatusAttemptsExhausted.String())
	assert.Equal(t, "expired", StatusExpired.String())
	assert.Equal(t, "unknown", Status(99).String())
}
