package types

import "strings"

// Role is a portal role granted to a user
type Role string

const (
	RoleJournalist Role = "JOURNALIST"
	RoleReviewer   Role = "REVIEWER"
	RoleAdmin      Role = "ADMIN"
)

// UserProfile is the logged-in user as returned by the login endpoint
type UserProfile struct {
	ID          string `json:"id" yaml:"id"`
	Username    string `json:"username" yaml:"username"`
	Roles       []Role `json:"roles" yaml:"roles"`
	FirstName   string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty" yaml:"phoneNumber,omitempty"`
}

// HasRole reports whether the user holds role
func (u *UserProfile) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DisplayName prefers the full name and falls back to the username
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// RegisterRequest is the sign-up form sent to the registration endpoint
type RegisterRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
}
