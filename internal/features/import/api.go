package import_feature

import (
	"go-telecrm/internal/common/api"
	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/config"
	"go-telecrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ImportApi struct {
	controller *ImportController
	config     *config.Config
}

func NewImportApi(controller *ImportController, config *config.Config) api.Route {
	return &ImportApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all import routes
func (h *ImportApi) Setup(app *fiber.App) {
	importGroup := app.Group("/api/import", middleware.AuthMiddleware(h.config.SkipAuth))

	importGroup.Post("/",
		middleware.RequireRole(common_models.RoleAdmin, common_models.RoleTelecaller),
		h.controller.ImportFile)
}
