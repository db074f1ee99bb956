package archive

import (
	"go-telecrm/internal/common/api"
	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/config"
	"go-telecrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ArchiveApi struct {
	controller *ArchiveController
	config     *config.Config
}

func NewArchiveApi(controller *ArchiveController, config *config.Config) api.Route {
	return &ArchiveApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all archive routes
func (h *ArchiveApi) Setup(app *fiber.App) {
	archiveGroup := app.Group("/api/archive", middleware.AuthMiddleware(h.config.SkipAuth))

	archiveGroup.Get("/", h.controller.ListArchived)
	archiveGroup.Post("/:id", middleware.RequireRole(common_models.RoleAdmin), h.controller.MoveToReport)
}
