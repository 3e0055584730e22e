package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/helixdesk/helixdesk/internal/api/dto"
	"github.com/helixdesk/helixdesk/internal/auth"
	"github.com/helixdesk/helixdesk/internal/domain"
	apperrors "github.com/helixdesk/helixdesk/pkg/util"
)

func principal(c *fiber.Ctx) (*domain.User, error) {
	user, ok := auth.PrincipalFromContext(c)
	if !ok || user == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	return user, nil
}

func attachmentsFromRequest(reqs []dto.AttachmentRequest) []domain.Attachment {
	attachments := make([]domain.Attachment, 0, len(reqs))
	for _, req := range reqs {
		attachments = append(attachments, domain.Attachment{
			ID:         uuid.NewString(),
			FileName:   req.FileName,
			MimeType:   req.MimeType,
			StorageKey: req.StorageKey,
		})
	}
	return attachments
}

func userResponse(user *domain.User, includeToken bool) dto.UserResponse {
	resp := dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Name:        user.Name,
		Role:        user.Role,
		Avatar:      user.Avatar,
		Bio:         user.Bio,
		CompanyName: user.CompanyName,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
	if includeToken {
		resp.ClientToken = user.ClientToken
	}
	return resp
}
