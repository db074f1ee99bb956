package archive

import (
	"go-telecrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ArchiveController struct {
	Service ArchiveService
}

func NewArchiveController(service ArchiveService) *ArchiveController {
	return &ArchiveController{Service: service}
}

func (ctrl *ArchiveController) MoveToReport(c *fiber.Ctx) error {
	caller, ok := middleware.Caller(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	entry, err := ctrl.Service.MoveToReport(c.Context(), c.Params("id"), caller.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lead moved to report",
		"data":    entry,
	})
}

func (ctrl *ArchiveController) ListArchived(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	if page < 1 {
		page = 1
	}
	size := int64(c.QueryInt("page_size", 50))

	entries, total, err := ctrl.Service.ListArchived(c.Context(), size, (page-1)*size)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data":  entries,
		"total": total,
		"page":  page,
	})
}
