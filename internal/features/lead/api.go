package lead

import (
	"go-telecrm/internal/common/api"
	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/config"
	"go-telecrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeadApi struct {
	controller *LeadController
	config     *config.Config
}

func NewLeadApi(controller *LeadController, config *config.Config) api.Route {
	return &LeadApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all lead routes
func (h *LeadApi) Setup(app *fiber.App) {
	leadGroup := app.Group("/api/leads", middleware.AuthMiddleware(h.config.SkipAuth))

	leadGroup.Get("/", h.controller.ListLeads)
	leadGroup.Patch("/:id", h.controller.UpdateLead)
	leadGroup.Post("/:id/assign",
		middleware.RequireRole(common_models.RoleAdmin, common_models.RoleTelecaller),
		h.controller.AssignLead)
}
