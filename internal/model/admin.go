package model

import "time"

// Admin roles. Superadmins can perform destructive site-wide actions that
// regular admins cannot.
const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Admin is an administrative account that can manage leaderboard entries.
// Accounts are provisioned out-of-band via `hallboard admin create` and are
// never mutated through the HTTP API. Passwords are stored as bcrypt hashes.
type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // bcrypt hash, never expose
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Public returns the subset of admin fields that may be sent to clients.
func (a *Admin) Public() AdminPublic {
	return AdminPublic{
		ID:       a.ID,
		Username: a.Username,
		Role:     a.Role,
	}
}

// AdminPublic is the client-visible projection of an Admin. It matches the
// identity embedded in session tokens.
type AdminPublic struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ValidRole reports whether role is one of the recognized admin roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperadmin
}
