package domain

import "strings"

// Role is the authorization level attached to a Session.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Session models the currently authenticated principal of a client.
// The token is persisted under its own key and never serialized with the user entry.
type Session struct {
	UserID      string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	Token       string `json:"-"`
}

// Valid reports whether s carries the identity fields a restored session needs.
func (s *Session) Valid() bool {
	return s != nil && s.UserID != "" && s.Username != "" && s.Role.Valid()
}

// Clone returns a copy of s so callers never share the manager's instance.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// Apply merges the mutable fields of p into s. Identity fields are left alone.
func (s *Session) Apply(p ProfileUpdate) {
	if p.DisplayName != nil {
		s.DisplayName = *p.DisplayName
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
}

// Credentials is the transient input of a login attempt. It is never persisted.
type Credentials struct {
	Username string
	Password string
}

// Blank reports whether either field is empty after trimming.
func (c Credentials) Blank() bool {
	return strings.TrimSpace(c.Username) == "" || strings.TrimSpace(c.Password) == ""
}

// Registration carries the profile fields of a new account.
type Registration struct {
	Username    string
	DisplayName string
	Email       string
	Password    string
}

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string
	Email       *string
}

// Empty reports whether the update carries no fields.
func (p ProfileUpdate) Empty() bool {
	return p.DisplayName == nil && p.Email == nil
}
