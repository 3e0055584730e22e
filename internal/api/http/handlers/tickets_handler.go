package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helixdesk/helixdesk/internal/api/dto"
	"github.com/helixdesk/helixdesk/internal/service"
	apperrors "github.com/helixdesk/helixdesk/pkg/util"
)

// TicketsHandler manages the ticket lifecycle endpoints. Every response
// carries the full ticket document so clients can replace their copy
// wholesale.
type TicketsHandler struct {
	workflow *service.WorkflowService
	views    *service.ViewService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(workflow *service.WorkflowService, views *service.ViewService) *TicketsHandler {
	return &TicketsHandler{workflow: workflow, views: views}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.workflow.CreateTicket(c.UserContext(), actor, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Priority:    req.Priority,
		Attachments: attachmentsFromRequest(req.Attachments),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// List GET /tickets. Staff see all, customers their own.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.views.ListTickets(actor)})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.workflow.GetTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Claim POST /tickets/:id/claim.
func (h *TicketsHandler) Claim(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.workflow.Claim(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Assign POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}
	ticket, err := h.workflow.Assign(c.UserContext(), actor, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// RejectNew POST /tickets/:id/reject-new.
func (h *TicketsHandler) RejectNew(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ReasonRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.workflow.RejectNew(c.UserContext(), actor, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Resolve POST /tickets/:id/resolve.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ResolutionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.workflow.SubmitResolution(c.UserContext(), actor, c.Params("id"), req.Note, attachmentsFromRequest(req.Attachments))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Accept POST /tickets/:id/accept.
func (h *TicketsHandler) Accept(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.workflow.AcceptResolution(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Reject POST /tickets/:id/reject.
func (h *TicketsHandler) Reject(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ReasonRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.workflow.RejectResolution(c.UserContext(), actor, c.Params("id"), req.Reason, attachmentsFromRequest(req.Attachments))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Cancel POST /tickets/:id/cancel.
func (h *TicketsHandler) Cancel(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.workflow.Cancel(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Delete DELETE /tickets/:id. Admin only.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.workflow.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddAttachments POST /tickets/:id/attachments.
func (h *TicketsHandler) AddAttachments(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.AttachmentsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.workflow.AddAttachments(c.UserContext(), actor, c.Params("id"), attachmentsFromRequest(req.Attachments))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// GenerateTasks POST /tickets/:id/generate-tasks.
func (h *TicketsHandler) GenerateTasks(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.workflow.GenerateTasks(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Suggest POST /tickets/suggest. Classifies a draft before creation.
func (h *TicketsHandler) Suggest(c *fiber.Ctx) error {
	if _, err := principal(c); err != nil {
		return err
	}
	var req dto.SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	suggestion := h.workflow.SuggestPriorityType(c.UserContext(), req.Title, req.Description)
	return c.JSON(fiber.Map{"data": suggestion})
}
