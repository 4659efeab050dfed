package response

import "probul-backend/pkg/utils"

type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	TotalPages int   `json:"totalPages"`
}

type UserListResponse struct {
	PaginationMeta
	Users []AdminUserResponse `json:"users"`
}

func NewPaginationMeta(page, perPage int, total int64) PaginationMeta {
	return PaginationMeta{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: utils.TotalPages(total, perPage),
	}
}

func NewUserListResponse(users []AdminUserResponse, page, perPage int, total int64) *UserListResponse {
	if users == nil {
		users = []AdminUserResponse{}
	}

	return &UserListResponse{
		PaginationMeta: NewPaginationMeta(page, perPage, total),
		Users:          users,
	}
}
