package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"probul-backend/internal/data/entity"
	"probul-backend/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_ListUsersPaginates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i := 1; i <= 5; i++ {
		registerUser(t, f, fmt.Sprintf("u%d@b.com", i), "secret1")
	}

	list, err := f.admin.ListUsers(ctx, &request.PaginatedRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, list.Total)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, 2, list.PerPage)
	assert.Equal(t, 3, list.TotalPages)
	require.Len(t, list.Users, 2)
	assert.Equal(t, "u3@b.com", list.Users[0].Email)
	assert.Equal(t, "u2@b.com", list.Users[1].Email)
	assert.True(t, list.Users[0].Verified)
}

func TestAdminService_ListUsersDefaults(t *testing.T) {
	f := newFixture(t)

	list, err := f.admin.ListUsers(context.Background(), &request.PaginatedRequest{PerPage: 10000})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, request.MaxPerPage, list.PerPage)
	assert.NotNil(t, list.Users)
	assert.Empty(t, list.Users)

	list, err = f.admin.ListUsers(context.Background(), &request.PaginatedRequest{})
	require.NoError(t, err)
	assert.Equal(t, request.DefaultPerPage, list.PerPage)
}

func TestAdminService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// yesterday's account
	f.clock.Advance(-24 * time.Hour)
	registerUser(t, f, "old@b.com", "secret1")
	f.clock.Advance(24 * time.Hour)

	registerUser(t, f, "new@b.com", "secret1")
	require.NoError(t, f.auth.SendRegistrationCode(ctx, registration("pending@b.com")))
	require.NoError(t, f.auth.ForgotPassword(ctx, &request.ForgotPasswordRequest{Email: "old@b.com"}))

	// expired but unused, not active
	_, err := f.otp.Issue(ctx, "stale@b.com", entity.OTPTypeForgot)
	require.NoError(t, err)
	_, err = f.store.Run(ctx, `UPDATE otp_codes SET expires_at = ? WHERE email = ?`,
		f.clock.Now().Add(-time.Minute).UnixMilli(), "stale@b.com")
	require.NoError(t, err)

	stats, err := f.admin.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalVerifiedUsers)
	assert.EqualValues(t, 1, stats.PendingRegistrations)
	assert.EqualValues(t, 2, stats.ActiveOTPCodes)
	assert.EqualValues(t, 1, stats.RegisteredToday)
}
