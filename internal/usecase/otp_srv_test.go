package usecase

import (
	"context"
	"regexp"
	"testing"
	"time"

	"probul-backend/internal/data/entity"
	"probul-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestOTPService_IssueGeneratesSixDigits(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 50; i++ {
		code, err := f.otp.Issue(context.Background(), "a@b.com", entity.OTPTypeRegister)
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}

func TestOTPService_IssueKeepsLeadingZeros(t *testing.T) {
	f := newFixture(t)
	f.otp.generate = func() (string, error) { return "000042", nil }

	code, err := f.otp.Issue(context.Background(), "a@b.com", entity.OTPTypeRegister)
	require.NoError(t, err)
	assert.Equal(t, "000042", code)

	require.NoError(t, f.otp.Validate(context.Background(), "a@b.com", "000042", entity.OTPTypeRegister))
}

func TestOTPService_IssueSetsExpiry(t *testing.T) {
	f := newFixture(t)

	_, err := f.otp.Issue(context.Background(), "a@b.com", entity.OTPTypeForgot)
	require.NoError(t, err)

	otp, err := f.repo.OTP.FindLatestUnused(context.Background(), "a@b.com", entity.OTPTypeForgot)
	require.NoError(t, err)
	require.NotNil(t, otp)
	assert.True(t, f.clock.Now().Add(10*time.Minute).Equal(otp.ExpiresAt), "expires at %s", otp.ExpiresAt)
}

func TestOTPService_NonPositiveExpiryUsesDefault(t *testing.T) {
	for _, minutes := range []int{0, -5} {
		config := &utils.Config{OTP: utils.OTPConfig{ExpiryMinutes: minutes}}
		otp := NewOTPService(nil, config, zap.NewNop()).(*otpService)
		assert.Equal(t, time.Duration(utils.DefaultOTPExpiryMinutes)*time.Minute, otp.expiry)
	}
}

func TestOTPService_IssueRejectsUnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.otp.Issue(context.Background(), "a@b.com", entity.OTPType("invite"))
	require.Error(t, err)
}

func TestOTPService_SecondIssueSupersedesFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.otp.Issue(ctx, "a@b.com", entity.OTPTypeRegister)
	require.NoError(t, err)
	f.otp.generate = func() (string, error) {
		if first == "111111" {
			return "222222", nil
		}
		return "111111", nil
	}
	second, err := f.otp.Issue(ctx, "a@b.com", entity.OTPTypeRegister)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	assert.Equal(t, 1, f.countRows(t,
		`SELECT COUNT(*) FROM otp_codes WHERE email = ? AND type = ? AND used = 0`, "a@b.com", "register"))

	err = f.otp.Validate(ctx, "a@b.com", first, entity.OTPTypeRegister)
	require.ErrorIs(t, err, ErrOTPMismatch)

	require.NoError(t, f.otp.Validate(ctx, "a@b.com", second, entity.OTPTypeRegister))
}

func TestOTPService_ValidateOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("no code issued", func(t *testing.T) {
		f := newFixture(t)
		err := f.otp.Validate(ctx, "a@b.com", "123456", entity.OTPTypeRegister)
		require.ErrorIs(t, err, ErrOTPNotFound)
	})

	t.Run("mismatch does not consume", func(t *testing.T) {
		f := newFixture(t)
		code, err := f.otp.Issue(ctx, "a@b.com", entity.OTPTypeRegister)
		require.NoError(t, err)

		wrong := "000000"
		if code == wrong {
			wrong = "999999"
		}
		require.ErrorIs(t, f.otp.Validate(ctx, "a@b.com", wrong, entity.OTPTypeRegister), ErrOTPMismatch)
		require.NoError(t, f.otp.Validate(ctx, "a@b.com", code, entity.OTPTypeRegister))
	})

	t.Run("no normalisation", func(t *testing.T) {
		f := newFixture(t)
		f.otp.generate = func() (string, error) { return "123456", nil }
		_, err := f.otp.Issue(ctx, "a@b.com", entity.OTPTypeRegister)
		require.NoError(t, err)

		require.ErrorIs(t, f.otp.Validate(ctx, "a@b.com", " 123456", entity.OTPTypeRegister), ErrOTPMismatch)
		require.ErrorIs(t, f.otp.Validate(ctx, "a@b.com", "123456 ", entity.OTPTypeRegister), ErrOTPMismatch)
	})

	t.Run("single use", func(t *testing.T) {
		f := newFixture(t)
		code, err := f.otp.Issue(ctx, "a@b.com", entity.OTPTypeRegister)
		require.NoError(t, err)

		require.NoError(t, f.otp.Validate(ctx, "a@b.com", code, entity.OTPTypeRegister))
		require.ErrorIs(t, f.otp.Validate(ctx, "a@b.com", code, entity.OTPTypeRegister), ErrOTPNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		f := newFixture(t)
		code, err := f.otp.Issue(ctx, "a@b.com", entity.OTPTypeRegister)
		require.NoError(t, err)

		f.clock.Advance(10*time.Minute + time.Millisecond)
		require.ErrorIs(t, f.otp.Validate(ctx, "a@b.com", code, entity.OTPTypeRegister), ErrOTPExpired)

		// rejected, not deleted
		assert.Equal(t, 1, f.countRows(t, `SELECT COUNT(*) FROM otp_codes WHERE used = 0`))
	})

	t.Run("valid at the expiry instant", func(t *testing.T) {
		f := newFixture(t)
		code, err := f.otp.Issue(ctx, "a@b.com", entity.OTPTypeRegister)
		require.NoError(t, err)

		f.clock.Advance(10 * time.Minute)
		require.NoError(t, f.otp.Validate(ctx, "a@b.com", code, entity.OTPTypeRegister))
	})

	t.Run("types are independent", func(t *testing.T) {
		f := newFixture(t)
		f.otp.generate = func() (string, error) { return "111111", nil }
		_, err := f.otp.Issue(ctx, "a@b.com", entity.OTPTypeRegister)
		require.NoError(t, err)
		f.otp.generate = func() (string, error) { return "222222", nil }
		_, err = f.otp.Issue(ctx, "a@b.com", entity.OTPTypeForgot)
		require.NoError(t, err)

		require.ErrorIs(t, f.otp.Validate(ctx, "a@b.com", "222222", entity.OTPTypeRegister), ErrOTPMismatch)
		require.NoError(t, f.otp.Validate(ctx, "a@b.com", "111111", entity.OTPTypeRegister))
		require.NoError(t, f.otp.Validate(ctx, "a@b.com", "222222", entity.OTPTypeForgot))
	})
}
