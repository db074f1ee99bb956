package store

import (
	"github.com/gofiber/fiber/v2"
)

type StoreController struct {
	Service StoreService
}

func NewStoreController(service StoreService) *StoreController {
	return &StoreController{Service: service}
}

func (ctrl *StoreController) ListStores(c *fiber.Ctx) error {
	stores, err := ctrl.Service.ListStores(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": stores,
	})
}

func (ctrl *StoreController) SaveStore(c *fiber.Ctx) error {
	var store Store
	if err := c.BodyParser(&store); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.SaveStore(c.Context(), &store); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Store saved successfully",
		"data":    store,
	})
}
