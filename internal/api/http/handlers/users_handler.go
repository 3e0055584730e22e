package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helixdesk/helixdesk/internal/api/dto"
	"github.com/helixdesk/helixdesk/internal/domain"
	"github.com/helixdesk/helixdesk/internal/service"
	apperrors "github.com/helixdesk/helixdesk/pkg/util"
)

// UsersHandler manages account endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Create POST /users. Admin only.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.Create(c.UserContext(), actor, service.UserCreateInput{
		Username:    req.Username,
		Password:    req.Password,
		Name:        req.Name,
		Role:        req.Role,
		Avatar:      req.Avatar,
		Bio:         req.Bio,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return err
	}
	// The portal token is returned once here so the admin can hand it to
	// the customer.
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user, true)})
}

// List GET /users. Staff only.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	users, err := h.service.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	includeToken := actor.Role == domain.RoleAdmin
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i], includeToken))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user, actor.Role == domain.RoleAdmin)})
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(actor, false)})
}

// UpdateProfile PATCH /users/me.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.UpdateProfile(c.UserContext(), actor, profileInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user, false)})
}

// AdminUpdate PATCH /users/:id. Admin only.
func (h *UsersHandler) AdminUpdate(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.AdminUpdate(c.UserContext(), actor, c.Params("id"), service.AdminUserUpdateInput{
		ProfileUpdateInput: profileInput(req.UpdateProfileRequest),
		Role:               req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user, true)})
}

// Delete DELETE /users/:id. Admin only.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func profileInput(req dto.UpdateProfileRequest) service.ProfileUpdateInput {
	return service.ProfileUpdateInput{
		Name:        req.Name,
		Avatar:      req.Avatar,
		Bio:         req.Bio,
		CompanyName: req.CompanyName,
		Password:    req.Password,
	}
}
