package models

import (
	"time"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleSeeker Role = "seeker"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleSeeker
}

// User is a BookSwap account. The password hash never leaves the server.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`

	PasswordHash string `json:"-"`
}

// AuthUser is the payload returned by login and registration. Clients keep
// it locally and re-present ID as ownerId on later requests.
type AuthUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) AuthView() AuthUser {
	return AuthUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// UserUpdate carries a partial profile edit. Empty fields are left untouched.
type UserUpdate struct {
	Name   string
	Email  string
	Mobile string
}

func (u UserUpdate) Empty() bool {
	return u.Name == "" && u.Email == "" && u.Mobile == ""
}
