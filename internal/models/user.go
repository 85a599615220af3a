package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Role names a user's permission class.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleMiniAdmin     Role = "mini_admin"
	RoleEmployee      Role = "employee"
	RoleOrdersManager Role = "orders_manager"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleMiniAdmin, RoleEmployee, RoleOrdersManager}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// UsernameKey folds name for case-insensitive comparison. Every uniqueness
// check and username lookup goes through it.
func UsernameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// User is an account. PasswordHash and PasswordSalt are hex encoded and are
// either both set or both empty (a seeded user before SeedDefaultCredentials).
type User struct {
	ID           string    `json:"id" validate:"required"`
	Username     string    `json:"username" validate:"required,max=64"`
	DisplayName  string    `json:"displayName" validate:"required,max=128"`
	Role         Role      `json:"role" validate:"required,oneof=admin mini_admin employee orders_manager"`
	PasswordHash string    `json:"passwordHash" validate:"omitempty,hexadecimal,len=64"`
	PasswordSalt string    `json:"passwordSalt" validate:"omitempty,hexadecimal,len=32"`
	Lang         string    `json:"lang,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) Validate() error {
	return validateStruct(u)
}

// HasCredentials reports whether the user has a hash/salt pair.
func (u *User) HasCredentials() bool {
	return u.PasswordHash != "" && u.PasswordSalt != ""
}

// UserPatch holds the fields an admin may change on an existing user.
// Nil fields are left untouched.
type UserPatch struct {
	DisplayName  *string
	Role         *Role
	PasswordHash *string
	PasswordSalt *string
}

// Apply copies the set fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.PasswordSalt != nil {
		u.PasswordSalt = *p.PasswordSalt
	}
}

// Session records who is logged in on this client.
type Session struct {
	UserID    string
	CreatedAt time.Time
}
