package response

import (
	"time"

	"probul-backend/internal/data/entity"
)

// UserResponse is the public view of an account. The password hash never leaves the service.
type UserResponse struct {
	ID       int64   `json:"id"`
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Photo    *string `json:"photo,omitempty"`
}

type AdminUserResponse struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

type StatsResponse struct {
	TotalVerifiedUsers   int64 `json:"totalVerifiedUsers"`
	PendingRegistrations int64 `json:"pendingRegistrations"`
	ActiveOTPCodes       int64 `json:"activeOtpCodes"`
	RegisteredToday      int64 `json:"registeredToday"`
}

// Helper converters
func UserToResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Phone:    user.Phone,
		Photo:    user.Photo,
	}
}

func UserToAdminResponse(user *entity.User) AdminUserResponse {
	return AdminUserResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Phone:     user.Phone,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
	}
}
