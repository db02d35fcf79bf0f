package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User is the resolved principal of the current session, or any account
// listed on the users screen. Role and IsActive are authoritative for
// access decisions for the lifetime of the screen that fetched them.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Credential is an ephemeral login credential pair. It is used once per
// login attempt and never persisted.
type Credential struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
