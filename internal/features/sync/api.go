package sync

import (
	"go-telecrm/internal/common/api"
	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/config"
	"go-telecrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	controller *SyncController
	config     *config.Config
}

func NewSyncApi(controller *SyncController, config *config.Config) api.Route {
	return &SyncApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all sync routes
func (h *SyncApi) Setup(app *fiber.App) {
	syncGroup := app.Group("/api/sync", middleware.AuthMiddleware(h.config.SkipAuth))

	syncGroup.Post("/run", middleware.RequireRole(common_models.RoleAdmin), h.controller.RunAll)
	syncGroup.Post("/run/:channel", middleware.RequireRole(common_models.RoleAdmin), h.controller.RunChannel)
	syncGroup.Get("/logs", h.controller.ListLogs)
}
