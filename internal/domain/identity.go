package domain

import "time"

// Role tags an identity for role-gated routes. Authorization for ticket data
// itself is enforced by the record store, not in this process.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Staff reports whether the role grants access to the triage surface.
func (r Role) Staff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Identity is the authenticated caller as seen by the core: an email used for
// created_by stamping and "my tickets" scoping, plus a role tag.
type Identity struct {
	Email string
	Role  Role
}

// User is the stored account backing an identity.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
