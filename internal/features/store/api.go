package store

import (
	"go-telecrm/internal/common/api"
	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/config"
	"go-telecrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type StoreApi struct {
	controller *StoreController
	config     *config.Config
}

func NewStoreApi(controller *StoreController, config *config.Config) api.Route {
	return &StoreApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all store routes
func (h *StoreApi) Setup(app *fiber.App) {
	storeGroup := app.Group("/api/stores", middleware.AuthMiddleware(h.config.SkipAuth))

	storeGroup.Get("/", h.controller.ListStores)
	storeGroup.Post("/", middleware.RequireRole(common_models.RoleAdmin), h.controller.SaveStore)
}
