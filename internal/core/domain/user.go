package domain

import "strings"

// Role is the authorization level the backend grants a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a role the backend issues.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the user record returned by the auth endpoints.
type Identity struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
	Location string `json:"location,omitempty"`
	Language string `json:"language,omitempty"`
}

// IsAdmin reports whether the identity may call admin-only endpoints.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Key identifies the identity for refetch decisions. Two identities with the
// same key need no refetch of identity-dependent data.
func (i Identity) Key() string {
	id := i.ID
	if id == "" {
		id = i.Email
	}
	if id == "" {
		id = i.Name
	}
	return id + "|" + strings.TrimSpace(i.Location)
}

// FarmDetails describes the farm a user registers with.
type FarmDetails struct {
	CropTypes []string `json:"cropTypes"`
	SoilType  string   `json:"soilType"`
}

// Registration is the payload of POST /auth/register.
type Registration struct {
	Name        string      `json:"name"     validate:"required"`
	Email       string      `json:"email"    validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=6"`
	Location    string      `json:"location" validate:"required"`
	Language    string      `json:"language,omitempty"`
	FarmDetails FarmDetails `json:"farmDetails"`
}

// Credentials is the payload of POST /auth/login.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
