// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrEmailAlreadyExists indicates that a user with the given email already exists.
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword indicates the wrong password for the given user.
	ErrWrongPassword = errors.New("wrong password")
	// ErrInvalidRole indicates a role outside of user/admin.
	ErrInvalidRole = errors.New("invalid role")
	// ErrAdminRequired indicates that the operation is restricted to admins.
	ErrAdminRequired = errors.New("admin access required")
	// ErrOwnerMismatch indicates an attempt to read another user's data.
	ErrOwnerMismatch = errors.New("account owner mismatch")
)

// Roles assignable to a user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole returns true if the given role is assignable.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User holds a registered identity with its balance and role.
type User struct {
	ID             string    `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	HashedPassword string    `json:"-"`
	Role           string    `json:"role"`
	Balance        string    `json:"balance"`
	Currency       string    `json:"currency"`
	IsVerified     bool      `json:"isVerified"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	ID             string
	FullName       string
	Email          string
	Phone          string
	Address        string
	HashedPassword string
	Role           string
	IsVerified     bool
}

// UpdateUserParams is the admin-side partial update of a user.
// Balance here is a direct override that bypasses the ledger delta rule.
type UpdateUserParams struct {
	UserID     string
	Balance    *string
	IsVerified *bool
	Role       *string
}
