package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helixdesk/helixdesk/internal/api/dto"
	"github.com/helixdesk/helixdesk/internal/service"
	apperrors "github.com/helixdesk/helixdesk/pkg/util"
)

// TasksHandler manages the per-ticket task endpoints. Responses carry the
// whole updated ticket, not just the task.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// Add POST /tickets/:id/tasks.
func (h *TasksHandler) Add(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Add(c.UserContext(), actor, c.Params("id"), service.TaskCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		DueDate:      req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// Update PATCH /tickets/:id/tasks/:taskId.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Update(c.UserContext(), actor, c.Params("id"), c.Params("taskId"), service.TaskUpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Delete DELETE /tickets/:id/tasks/:taskId. Soft delete.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Delete(c.UserContext(), actor, c.Params("id"), c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Claim POST /tickets/:id/tasks/:taskId/claim.
func (h *TasksHandler) Claim(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Claim(c.UserContext(), actor, c.Params("id"), c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Assign POST /tickets/:id/tasks/:taskId/assign. Admin only.
func (h *TasksHandler) Assign(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.AssignTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}
	ticket, err := h.service.Assign(c.UserContext(), actor, c.Params("id"), c.Params("taskId"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Submit POST /tickets/:id/tasks/:taskId/submit.
func (h *TasksHandler) Submit(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.SubmitTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Submit(c.UserContext(), actor, c.Params("id"), c.Params("taskId"), req.Note, attachmentsFromRequest(req.Attachments))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Approve POST /tickets/:id/tasks/:taskId/approve.
func (h *TasksHandler) Approve(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Approve(c.UserContext(), actor, c.Params("id"), c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Reject POST /tickets/:id/tasks/:taskId/reject.
func (h *TasksHandler) Reject(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Reject(c.UserContext(), actor, c.Params("id"), c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Toggle POST /tickets/:id/tasks/:taskId/toggle.
func (h *TasksHandler) Toggle(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Toggle(c.UserContext(), actor, c.Params("id"), c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}
