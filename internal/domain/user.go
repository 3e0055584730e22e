package domain

import "time"

// UserRole enumerates account roles.
type UserRole string

const (
	RoleCustomer  UserRole = "CUSTOMER"
	RoleDeveloper UserRole = "DEVELOPER"
	RoleAdmin     UserRole = "ADMIN"
)

// User is the domain model for everyone who can sign in: staff via
// username/password, customers via their client portal token.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Role         UserRole
	Avatar       string
	Bio          string
	CompanyName  string
	ClientToken  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff reports whether the user holds an internal operator role.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleDeveloper
}
