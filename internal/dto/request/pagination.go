package request

import "probul-backend/pkg/utils"

const (
	DefaultPerPage = 100
	MaxPerPage     = 500
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=500"`
}

func (p PaginatedRequest) Offset() int {
	return utils.PageOffset(p.Page, p.Limit())
}

// Limit clamps PerPage into [1, MaxPerPage], falling back to DefaultPerPage.
func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		return MaxPerPage
	}
	return p.PerPage
}
