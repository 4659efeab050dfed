package adaptor

import (
	"net/http"

	"probul-backend/internal/dto/request"
	"probul-backend/internal/dto/response"
	"probul-backend/internal/usecase"
	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

type userListBody struct {
	OK bool `json:"ok"`
	*response.UserListResponse
}

type statsBody struct {
	OK    bool                    `json:"ok"`
	Stats *response.StatsResponse `json:"stats"`
}

// GetAllUsers handles GET /api/admin/users?page=1&per_page=100
func (h *AdminHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page, perPage := utils.PageParams(r.URL.Query(), request.DefaultPerPage)
	req := &request.PaginatedRequest{Page: page, PerPage: perPage}

	users, err := h.service.ListUsers(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "get all users")
		return
	}

	utils.ResponseJSON(w, http.StatusOK, userListBody{OK: true, UserListResponse: users})
}

// GetStats handles GET /api/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "get stats")
		return
	}

	utils.ResponseJSON(w, http.StatusOK, statsBody{OK: true, Stats: stats})
}
