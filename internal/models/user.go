package models

// Role is an application-level permission tier.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// UserProfile is the application-level profile for an authenticated account.
// The uid matches the identity account's subject; no profile may exist
// without a corresponding account.
type UserProfile struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

// UserPatch is a partial profile update. Nil fields are left unchanged.
type UserPatch struct {
	Name       *string
	Role       *Role
	Department *string
}

// LoginRequest is the request body for user sign-in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the request body for self-service registration.
// Role defaults to "user" when omitted.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Name       string `json:"name" validate:"required"`
	Department string `json:"department"`
	Role       Role   `json:"role,omitempty"`
}

// UpdateUserRequest is the request body for admin edits to a profile.
// Role changes are admin-only, enforced by the route, not the model.
type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty"`
	Role       *Role   `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
}

// LoginResponse is returned on successful sign-in or registration.
// Profile is null when the account exists but has no profile document yet
// (authenticated but unprovisioned).
type LoginResponse struct {
	Token   string       `json:"token"`
	Profile *UserProfile `json:"profile"`
}

// IsValidRole checks if a role is one of the two known tiers.
func IsValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleUser
}
