package models

import "time"

// Staff roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a staff account. Password always holds a bcrypt hash, never
// plaintext, and is excluded from JSON responses.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Username  string    `bson:"username" json:"username" validate:"required"`
	Password  string    `bson:"password" json:"-"`
	Name      string    `bson:"name" json:"name" validate:"required"`
	Email     string    `bson:"email" json:"email" validate:"required,email"`
	Role      string    `bson:"role" json:"role" validate:"required,oneof=admin staff"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	CreatedBy string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
}

// AuthUser is the credential-free subset of User held as the active session.
type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// Auth returns the session view of a user.
func (u User) Auth() AuthUser {
	return AuthUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

// UserUpdate carries a partial user edit. A non-nil Password is re-hashed by
// the store before being applied.
type UserUpdate struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}
