package user

import (
	"go-telecrm/internal/common/api"
	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/config"
	"go-telecrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) api.Route {
	return &UserApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers auth and user routes
func (h *UserApi) Setup(app *fiber.App) {
	app.Post("/api/auth/login", h.controller.Login)

	userGroup := app.Group("/api/users",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(common_models.RoleAdmin))
	userGroup.Post("/", h.controller.CreateUser)
	userGroup.Get("/", h.controller.ListUsers)
}
