package verification

import (
	"sync"
	"testing"
	"time"

	"github.com/codetube-labs/codetube/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type capturingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *capturingNotifier) NotifyCode(email, code string, purpose Purpose, expiresIn time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, email+":"+code)
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := testutils.SetupTestDB(t, &VerificationCode{})
	cfg := testutils.GetTestConfig()
	return NewService(&cfg.Verification, db, nil), db
}

func TestService_Issue(t *testing.T) {
	testEmail := "user@example.com"

	t.Run("creates a six digit numeric code with TTL", func(t *testing.T) {
		service, _ := newTestService(t)

		record, err := service.Issue(testEmail, PurposeEmailVerification)

		require.NoError(t, err)
		assert.Equal(t, testEmail, record.Email)
		assert.Len(t, record.Code, 6)
		assert.NotEqual(t, byte('0'), record.Code[0])
		assert.False(t, record.Used)
		assert.Nil(t, record.UsedAt)
		assert.Zero(t, record.AttemptCount)
		assert.True(t, record.ExpiresAt.After(time.Now().Add(14*time.Minute)))
		assert.True(t, record.ExpiresAt.Before(time.Now().Add(16*time.Minute)))
	})

	t.Run("normalizes the email", func(t *testing.T) {
		service, db := newTestService(t)

		_, err := service.Issue("  User@Example.COM ", PurposeEmailVerification)
		require.NoError(t, err)

		var record VerificationCode
		require.NoError(t, db.First(&record).Error)
		assert.Equal(t, "user@example.com", record.Email)
	})

	t.Run("reissue deletes the prior code for the pair", func(t *testing.T) {
		service, db := newTestService(t)

		first, err := service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)

		second, err := service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)

		var count int64
		db.Model(&VerificationCode{}).Where("email = ?", testEmail).Count(&count)
		assert.EqualValues(t, 1, count)

		// the first code is gone, so verifying it reads as never issued
		result, err := service.Verify(testEmail, first.Code, PurposeEmailVerification)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, MsgInvalidCode, result.Message)

		result, err = service.Verify(testEmail, second.Code, PurposeEmailVerification)
		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("reissue leaves codes for other purposes alone", func(t *testing.T) {
		service, db := newTestService(t)

		_, err := service.Issue(testEmail, PurposePasswordReset)
		require.NoError(t, err)
		_, err = service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)
		_, err = service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)

		var count int64
		db.Model(&VerificationCode{}).Where("purpose = ?", PurposePasswordReset).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("hands the code to the notifier", func(t *testing.T) {
		service, _ := newTestService(t)
		notifier := &capturingNotifier{}
		service.SetNotifier(notifier)

		record, err := service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)

		require.Len(t, notifier.calls, 1)
		assert.Equal(t, testEmail+":"+record.Code, notifier.calls[0])
	})

	t.Run("issues without a notifier configured", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)
	})
}

func TestService_Verify(t *testing.T) {
	testEmail := "user@example.com"

	t.Run("consumes a valid code and purges the pair", func(t *testing.T) {
		service, db := newTestService(t)

		record, err := service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)

		result, err := service.Verify(testEmail, record.Code, PurposeEmailVerification)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, MsgCodeVerified, result.Message)
		require.NotNil(t, result.Record)
		assert.True(t, result.Record.Used)
		assert.NotNil(t, result.Record.UsedAt)

		var count int64
		db.Model(&VerificationCode{}).Where("email = ?", testEmail).Count(&count)
		assert.EqualValues(t, 0, count)
	})

	t.Run("second verify of a consumed code reads as never issued", func(t *testing.T) {
		service, _ := newTestService(t)

		record, err := service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)

		result, err := service.Verify(testEmail, record.Code, PurposeEmailVerification)
		require.NoError(t, err)
		require.True(t, result.Success)

		result, err = service.Verify(testEmail, record.Code, PurposeEmailVerification)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, MsgInvalidCode, result.Message)
	})

	t.Run("wrong code fails without leaking whether one was issued", func(t *testing.T) {
		service, _ := newTestService(t)

		service.generateCode = func() (string, error) { return "123456", nil }
		_, err := service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)

		result, err := service.Verify(testEmail, "654321", PurposeEmailVerification)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, MsgInvalidCode, result.Message)
	})

	t.Run("never-issued pair fails with the same message", func(t *testing.T) {
		service, _ := newTestService(t)

		result, err := service.Verify("nobody@example.com", "123456", PurposeEmailVerification)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, MsgInvalidCode, result.Message)
	})

	t.Run("wrong purpose does not match", func(t *testing.T) {
		service, _ := newTestService(t)

		record, err := service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)

		result, err := service.Verify(testEmail, record.Code, PurposePasswordReset)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, MsgInvalidCode, result.Message)
	})

	t.Run("wrong code burns an attempt on the live record", func(t *testing.T) {
		service, db := newTestService(t)

		service.generateCode = func() (string, error) { return "123456", nil }
		_, err := service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			result, err := service.Verify(testEmail, "000000", PurposeEmailVerification)
			require.NoError(t, err)
			assert.Equal(t, MsgInvalidCode, result.Message)
		}

		var record VerificationCode
		require.NoError(t, db.Where("email = ?", testEmail).First(&record).Error)
		assert.Equal(t, 2, record.AttemptCount)
	})

	t.Run("correct code after exhausted attempts is rejected", func(t *testing.T) {
		service, _ := newTestService(t)

		service.generateCode = func() (string, error) { return "123456", nil }
		_, err := service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := service.Verify(testEmail, "000000", PurposeEmailVerification)
			require.NoError(t, err)
		}

		result, err := service.Verify(testEmail, "123456", PurposeEmailVerification)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, MsgTooManyAttempts, result.Message)
	})

	t.Run("expired code is rejected even if never submitted before", func(t *testing.T) {
		service, db := newTestService(t)

		expired := &VerificationCode{
			Email:     testEmail,
			Code:      "123456",
			Purpose:   PurposeEmailVerification,
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		require.NoError(t, db.Create(expired).Error)

		result, err := service.Verify(testEmail, "123456", PurposeEmailVerification)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, MsgCodeExpired, result.Message)
	})

	t.Run("simulated clock moves a code past its TTL", func(t *testing.T) {
		service, _ := newTestService(t)

		record, err := service.Issue(testEmail, PurposeEmailVerification)
		require.NoError(t, err)

		service.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

		result, err := service.Verify(testEmail, record.Code, PurposeEmailVerification)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, MsgCodeExpired, result.Message)
	})

	t.Run("used row that escaped purging is reported as used", func(t *testing.T) {
		service, db := newTestService(t)

		usedAt := time.Now()
		leftover := &VerificationCode{
			Email:     testEmail,
			Code:      "123456",
			Purpose:   PurposeEmailVerification,
			ExpiresAt: time.Now().Add(time.Hour),
			Used:      true,
			UsedAt:    &usedAt,
		}
		require.NoError(t, db.Create(leftover).Error)

		result, err := service.Verify(testEmail, "123456", PurposeEmailVerification)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, MsgCodeUsed, result.Message)
	})
}

func TestService_CleanupExpired(t *testing.T) {
	service, db := newTestService(t)

	require.NoError(t, db.Create(&VerificationCode{
		Email:     "old@example.com",
		Code:      "111111",
		Purpose:   PurposeEmailVerification,
		ExpiresAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&VerificationCode{
		Email:     "fresh@example.com",
		Code:      "222222",
		Purpose:   PurposeEmailVerification,
		ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	removed, err := service.CleanupExpired()
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	var count int64
	db.Model(&VerificationCode{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateNumericCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
