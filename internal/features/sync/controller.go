package sync

import (
	common_models "go-telecrm/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type SyncController struct {
	Service SyncService
}

func NewSyncController(service SyncService) *SyncController {
	return &SyncController{Service: service}
}

func (ctrl *SyncController) RunAll(c *fiber.Ctx) error {
	results, err := ctrl.Service.RunAll(c.Context(), common_models.SyncTriggerManual)
	if err != nil {
		status := fiber.StatusInternalServerError
		if err == ErrRunInProgress {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Sync completed",
		"data":    results,
	})
}

func (ctrl *SyncController) RunChannel(c *fiber.Ctx) error {
	syncType := common_models.SyncType(c.Params("channel"))

	outcome, err := ctrl.Service.RunChannel(c.Context(), syncType, common_models.SyncTriggerManual)
	if err != nil {
		status := fiber.StatusBadRequest
		if err == ErrRunInProgress {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Sync completed",
		"data":    outcome,
	})
}

func (ctrl *SyncController) ListLogs(c *fiber.Ctx) error {
	syncType := common_models.SyncType(c.Query("channel"))
	limit := int64(c.QueryInt("limit", 20))

	logs, err := ctrl.Service.ListLogs(c.Context(), syncType, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": logs,
	})
}
