package import_feature

import (
	common_models "go-telecrm/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type ImportController struct {
	Service ImportService
}

func NewImportController(service ImportService) *ImportController {
	return &ImportController{Service: service}
}

func (ctrl *ImportController) ImportFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	channel := common_models.SyncType(c.FormValue("channel", string(common_models.SyncTypeWalkIn)))
	reimport := c.FormValue("reimport") == "true"

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "could not open uploaded file",
		})
	}
	defer file.Close()

	outcome, err := ctrl.Service.ImportFile(c.Context(), file, fileHeader.Filename, channel, reimport)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Import completed",
		"data":    outcome,
	})
}
