package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"probul-backend/internal/usecase"
	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	Admin  *AdminHandler
	System *SystemHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, log),
		Admin:  NewAdminHandler(service.Admin, log),
		System: NewSystemHandler(config.App.PublicDir, log),
	}
}

// decodeJSON reads the request body into dst and answers the client itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.ResponseError(w, http.StatusRequestEntityTooLarge, "Request body is too large.")
			return false
		}
		utils.ResponseBadRequest(w, usecase.ErrInvalidRequest.Message)
		return false
	}
	return true
}

// writeServiceError maps a service failure onto a status code. Unknown
// failures are logged and reported as a generic server error.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	svcErr, ok := usecase.AsError(err)
	if !ok {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Server error.")
		return
	}

	switch svcErr.Kind {
	case usecase.KindValidation, usecase.KindOTP:
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, svcErr.Message)

	case usecase.KindConflict:
		log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseConflict(w, svcErr.Message)

	case usecase.KindNotFound:
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, svcErr.Message)

	case usecase.KindAuth:
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		if errors.Is(err, usecase.ErrNotVerified) {
			utils.ResponseForbidden(w, svcErr.Message)
			return
		}
		utils.ResponseUnauthorized(w, svcErr.Message)

	case usecase.KindDelivery:
		log.Error(operation+" failed - delivery", zap.Error(err))
		utils.ResponseBadGateway(w, svcErr.Message)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Server error.")
	}
}
