package dto

import (
	"time"

	"github.com/helixdesk/helixdesk/internal/domain"
)

// CreateUserRequest payload.
type CreateUserRequest struct {
	Username    string          `json:"username"`
	Password    string          `json:"password"`
	Name        string          `json:"name"`
	Role        domain.UserRole `json:"role"`
	Avatar      string          `json:"avatar"`
	Bio         string          `json:"bio"`
	CompanyName string          `json:"company_name"`
}

// UpdateProfileRequest payload; omitted fields stay unchanged.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Avatar      *string `json:"avatar"`
	Bio         *string `json:"bio"`
	CompanyName *string `json:"company_name"`
	Password    *string `json:"password"`
}

// AdminUpdateUserRequest payload for admin edits.
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Role *domain.UserRole `json:"role"`
}

// UserResponse is the public account shape. ClientToken is only populated
// for admins viewing customer accounts.
type UserResponse struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Name        string          `json:"name"`
	Role        domain.UserRole `json:"role"`
	Avatar      string          `json:"avatar"`
	Bio         string          `json:"bio"`
	CompanyName string          `json:"company_name"`
	ClientToken *string         `json:"client_token,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
