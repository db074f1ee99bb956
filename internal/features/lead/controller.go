package lead

import (
	"time"

	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeadController struct {
	Service LeadService
}

func NewLeadController(service LeadService) *LeadController {
	return &LeadController{Service: service}
}

func (ctrl *LeadController) ListLeads(c *fiber.Ctx) error {
	caller, ok := middleware.Caller(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	opts := ListOptions{
		LeadType:   common_models.LeadType(c.Query("lead_type")),
		CallStatus: c.Query("call_status"),
		Page:       int64(c.QueryInt("page", 1)),
		PageSize:   int64(c.QueryInt("page_size", 50)),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			opts.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			opts.To = &t
		}
	}

	leads, total, err := ctrl.Service.ListLeads(c.Context(), caller, c.Query("store"), opts)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data":  leads,
		"total": total,
		"page":  opts.Page,
	})
}

func (ctrl *LeadController) UpdateLead(c *fiber.Ctx) error {
	caller, ok := middleware.Caller(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var update TelecallerUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	lead, err := ctrl.Service.UpdateTelecallerFields(c.Context(), caller, c.Params("id"), update)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lead updated successfully",
		"data":    lead,
	})
}

func (ctrl *LeadController) AssignLead(c *fiber.Ctx) error {
	caller, ok := middleware.Caller(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var body struct {
		AssignTo string `json:"assign_to"`
	}
	if err := c.BodyParser(&body); err != nil || body.AssignTo == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "assign_to is required",
		})
	}

	lead, err := ctrl.Service.AssignLead(c.Context(), caller, c.Params("id"), body.AssignTo)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lead assigned successfully",
		"data":    lead,
	})
}
