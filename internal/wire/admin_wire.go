package wire

import (
	"probul-backend/internal/adaptor"
	"probul-backend/pkg/middleware"
	"probul-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireAdmin configures the read-only admin routes behind the shared admin key
func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	if config.Security.AdminKey == "" {
		log.Warn("ADMIN_KEY is empty, admin endpoints will reject every request")
	}

	r.With(middleware.AdminKey(config.Security.AdminKey, log)).Route("/admin", func(r chi.Router) {
		r.Get("/users", adminHandler.GetAllUsers) // GET /api/admin/users?page=1&per_page=100
		r.Get("/stats", adminHandler.GetStats)
	})
}
