// internal/wire/wire.go
package wire

import (
	"probul-backend/internal/adaptor"
	"probul-backend/internal/data/repository"
	"probul-backend/internal/notify"
	"probul-backend/internal/usecase"
	"probul-backend/pkg/middleware"
	"probul-backend/pkg/ratelimit"
	"probul-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const maxBodyBytes = 10 << 20

// App holds the wired HTTP surface
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes on top of repo
func Wiring(
	repo *repository.Repository,
	notifier notify.Notifier,
	limiter ratelimit.Limiter,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, notifier, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, limiter, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	limiter ratelimit.Limiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// client IPs come from X-Forwarded-For only behind a trusted proxy
	if config.App.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.Route("/api", func(api chi.Router) {
		api.Use(ratelimit.Middleware(limiter, ratelimit.GeneralRule, logger))

		wireAuth(api, handler.Auth, limiter, logger)
		wireAdmin(api, handler.Admin, config, logger)
	})

	r.Get("/health", handler.System.Health)
	r.Get("/*", handler.System.Static)

	return r
}
