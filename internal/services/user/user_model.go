package user

import "time"

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleProjectLead Role = "project_lead"
	RoleDeveloper   Role = "developer"
)

// Valid reports whether r is one of the three known roles. Authorization is
// allow-list based per operation; there is no rank ordering between roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProjectLead, RoleDeveloper:
		return true
	}
	return false
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Summary is the shape returned to API callers. The password hash never
// leaves this package.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Summary() *Summary {
	return &Summary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// CreateUserRequest captures payload for creating a user
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}
