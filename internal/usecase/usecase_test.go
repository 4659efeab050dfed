package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"probul-backend/internal/data/entity"
	"probul-backend/internal/data/repository"
	"probul-backend/pkg/database"
	"probul-backend/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type delivery struct {
	Email string
	Code  string
	Type  entity.OTPType
}

type fakeNotifier struct {
	mu         sync.Mutex
	deliveries []delivery
	err        error
}

func (f *fakeNotifier) Deliver(_ context.Context, email, code string, otpType entity.OTPType) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.deliveries = append(f.deliveries, delivery{Email: email, Code: code, Type: otpType})
	return nil
}

func (f *fakeNotifier) last(t *testing.T) delivery {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.deliveries, "no code was delivered")
	return f.deliveries[len(f.deliveries)-1]
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deliveries)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	repo     *repository.Repository
	store    *database.Store
	otp      *otpService
	auth     *authService
	admin    *adminService
	notifier *fakeNotifier
	clock    *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := database.Open(context.Background(), utils.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "probul.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := zap.NewNop()
	repo := repository.NewRepository(store, log)
	clk := &clock{now: time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)}
	notifier := &fakeNotifier{}

	config := &utils.Config{OTP: utils.OTPConfig{ExpiryMinutes: 10}}
	otp := NewOTPService(repo, config, log).(*otpService)
	otp.now = clk.Now

	auth := NewAuthService(repo, otp, notifier, utils.NewBcryptHasher(bcrypt.MinCost), log).(*authService)
	auth.now = clk.Now

	admin := NewAdminService(repo, log).(*adminService)
	admin.now = clk.Now

	return &fixture{
		repo:     repo,
		store:    store,
		otp:      otp,
		auth:     auth,
		admin:    admin,
		notifier: notifier,
		clock:    clk,
	}
}

func (f *fixture) countRows(t *testing.T, query string, args ...any) int {
	t.Helper()

	var n int
	_, err := f.store.Get(context.Background(), query, args, &n)
	require.NoError(t, err)
	return n
}

var errSMTPDown = errors.New("smtp: connection refused")
