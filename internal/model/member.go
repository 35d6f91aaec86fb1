package model

// Member roles stored in members.role and carried in the JWT "role" claim.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Member represents an account that can hold reservations.  Email is
// unique across members.  The plain password is never stored; only its
// bcrypt hash.
type Member struct {
	ID           uint64 `db:"id"`            // members.id
	Name         string `db:"name"`          // members.name (display name)
	Email        string `db:"email"`         // members.email (unique)
	PasswordHash string `db:"password_hash"` // members.password_hash
	Role         string `db:"role"`          // members.role (USER | ADMIN)
}

// IsAdmin reports whether the member may act on behalf of others.
func (m Member) IsAdmin() bool { return m.Role == RoleAdmin }
