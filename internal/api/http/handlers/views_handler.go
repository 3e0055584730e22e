package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helixdesk/helixdesk/internal/service"
)

// ViewsHandler serves the read-only role-specific projections.
type ViewsHandler struct {
	service *service.ViewService
}

// NewViewsHandler constructs handler.
func NewViewsHandler(viewService *service.ViewService) *ViewsHandler {
	return &ViewsHandler{service: viewService}
}

// TaskPool GET /views/task-pool.
func (h *ViewsHandler) TaskPool(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	tasks, err := h.service.TaskPool(actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tasks})
}

// MyTasks GET /views/my-tasks.
func (h *ViewsHandler) MyTasks(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	tasks, err := h.service.MyTasks(actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tasks})
}

// Ongoing GET /views/ongoing.
func (h *ViewsHandler) Ongoing(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	tasks, err := h.service.OngoingTasks(actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tasks})
}

// Approvals GET /views/approvals.
func (h *ViewsHandler) Approvals(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.service.Approvals(actor)})
}

// HistoryTickets GET /views/history/tickets.
func (h *ViewsHandler) HistoryTickets(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.service.HistoryTickets(actor)})
}

// HistoryTasks GET /views/history/tasks.
func (h *ViewsHandler) HistoryTasks(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	view, err := h.service.HistoryTasks(actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// Reports GET /views/reports.
func (h *ViewsHandler) Reports(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	reports, err := h.service.Reports(actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reports})
}
