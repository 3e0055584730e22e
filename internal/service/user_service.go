package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/helixdesk/helixdesk/internal/auth"
	"github.com/helixdesk/helixdesk/internal/domain"
	"github.com/helixdesk/helixdesk/internal/events"
	"github.com/helixdesk/helixdesk/internal/repository"
	"github.com/helixdesk/helixdesk/internal/store"
	apperrors "github.com/helixdesk/helixdesk/pkg/util"
)

// UserService manages accounts. Customer accounts receive a one-time portal
// token at creation; the token never changes afterwards.
type UserService struct {
	users      repository.UserRepository
	snapshot   *store.Store
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, snapshot *store.Store, dispatcher events.Dispatcher, bcryptCost int) *UserService {
	return &UserService{users: users, snapshot: snapshot, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// UserCreateInput describes a new account.
type UserCreateInput struct {
	Username    string
	Password    string
	Name        string
	Role        domain.UserRole
	Avatar      string
	Bio         string
	CompanyName string
}

// ProfileUpdateInput carries self-service profile fields; nil means unchanged.
type ProfileUpdateInput struct {
	Name        *string
	Avatar      *string
	Bio         *string
	CompanyName *string
	Password    *string
}

// AdminUserUpdateInput extends profile updates with role changes.
type AdminUserUpdateInput struct {
	ProfileUpdateInput
	Role *domain.UserRole
}

// Create registers a new account. Admin only.
func (s *UserService) Create(ctx context.Context, actor *domain.User, input UserCreateInput) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required to manage users")
	}
	username := strings.TrimSpace(input.Username)
	name := strings.TrimSpace(input.Name)
	if username == "" || name == "" {
		return nil, apperrors.NewValidationError("username and name required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	switch input.Role {
	case domain.RoleCustomer, domain.RoleDeveloper, domain.RoleAdmin:
	default:
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         input.Role,
		Avatar:       strings.TrimSpace(input.Avatar),
		Bio:          strings.TrimSpace(input.Bio),
		CompanyName:  strings.TrimSpace(input.CompanyName),
	}
	if input.Role == domain.RoleCustomer {
		token, err := newClientToken()
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.ClientToken = &token
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.snapshot != nil {
		s.snapshot.ApplyUser(*user)
	}
	s.publishUserEvent(ctx, actor, events.EventUserCreated, user)
	return user, nil
}

// UpdateProfile lets a user edit their own profile.
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.User, input ProfileUpdateInput) (*domain.User, error) {
	return s.update(ctx, actor, actor.ID, AdminUserUpdateInput{ProfileUpdateInput: input})
}

// AdminUpdate lets an admin edit any account, including its role.
func (s *UserService) AdminUpdate(ctx context.Context, actor *domain.User, userID string, input AdminUserUpdateInput) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required to manage users")
	}
	return s.update(ctx, actor, userID, input)
}

// Delete removes an account. Admin only; self-deletion is refused.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, userID string) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required to manage users")
	}
	if userID == actor.ID {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	if s.snapshot != nil {
		s.snapshot.RemoveUser(userID)
	}
	s.publishUserEvent(ctx, actor, events.EventUserDeleted, &domain.User{ID: userID})
	return nil
}

// List returns all accounts, staff only. Customers resolve names through the
// tickets they can already see.
func (s *UserService) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Get returns a single account, staff only.
func (s *UserService) Get(ctx context.Context, actor *domain.User, userID string) (*domain.User, error) {
	if !actor.IsStaff() && actor.ID != userID {
		return nil, apperrors.NewForbidden("staff role required")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) update(ctx context.Context, actor *domain.User, userID string, input AdminUserUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name required", nil)
		}
		user.Name = name
	}
	if input.Avatar != nil {
		user.Avatar = strings.TrimSpace(*input.Avatar)
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.CompanyName != nil {
		user.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
		}
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		switch *input.Role {
		case domain.RoleCustomer, domain.RoleDeveloper, domain.RoleAdmin:
		default:
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
		}
		// Role changes never mint or revoke portal tokens.
		user.Role = *input.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.snapshot != nil {
		s.snapshot.ApplyUser(*user)
	}
	s.publishUserEvent(ctx, actor, events.EventUserMutated, user)
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) publishUserEvent(ctx context.Context, actor *domain.User, eventType events.EventType, user *domain.User) {
	if s.dispatcher == nil {
		return
	}
	m := ticketMutator{dispatcher: s.dispatcher}
	m.publish(ctx, actor, events.Event{
		Type:    eventType,
		Payload: events.UserMutatedPayload{UserID: user.ID, Role: user.Role},
	})
}

const clientTokenCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"

// newClientToken mints a portal token of the form hx-<32 random chars>.
func newClientToken() (string, error) {
	var b strings.Builder
	b.WriteString("hx-")
	max := big.NewInt(int64(len(clientTokenCharset)))
	for i := 0; i < 32; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(clientTokenCharset[n.Int64()])
	}
	return b.String(), nil
}
