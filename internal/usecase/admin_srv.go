package usecase

import (
	"context"
	"fmt"
	"time"

	"probul-backend/internal/data/repository"
	"probul-backend/internal/dto/request"
	"probul-backend/internal/dto/response"

	"go.uber.org/zap"
)

type AdminService interface {
	ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.UserListResponse, error)
	Stats(ctx context.Context) (*response.StatsResponse, error)
}

type adminService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewAdminService(repo *repository.Repository, log *zap.Logger) AdminService {
	return &adminService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "admin")),
	}
}

// ListUsers pages through verified users, newest first.
func (as *adminService) ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.UserListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	req.PerPage = req.Limit()

	users, err := as.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := as.repo.User.CountVerified(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.AdminUserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToAdminResponse(user)
	}

	as.log.Info("Users retrieved",
		zap.Int("count", len(users)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
		zap.Int("per_page", req.PerPage),
	)

	return response.NewUserListResponse(userResponses, req.Page, req.PerPage, total), nil
}

// Stats reports store-wide counters. "Today" starts at midnight UTC.
func (as *adminService) Stats(ctx context.Context) (*response.StatsResponse, error) {
	now := as.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	verified, err := as.repo.User.CountVerified(ctx)
	if err != nil {
		return nil, fmt.Errorf("count verified users: %w", err)
	}

	pending, err := as.repo.Pending.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pending registrations: %w", err)
	}

	activeOTPs, err := as.repo.OTP.CountActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("count active OTPs: %w", err)
	}

	today, err := as.repo.User.CountVerifiedSince(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("count users registered today: %w", err)
	}

	return &response.StatsResponse{
		TotalVerifiedUsers:   verified,
		PendingRegistrations: pending,
		ActiveOTPCodes:       activeOTPs,
		RegisteredToday:      today,
	}, nil
}
