package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the profile row kept next to the identity provider account.
// Points is the cached balance maintained by the points ledger.
type User struct {
	ID     uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Label  string    `json:"label"`
	Phone  string    `json:"phone,omitempty"`
	Role   Role      `json:"role"`
	Points int64     `json:"points"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

const DefaultUserSearchLimit = 50

// UserFilter controls admin user lookups.
type UserFilter struct {
	Query string // case-insensitive match on email, name or label
	Limit int    // default 50
}
