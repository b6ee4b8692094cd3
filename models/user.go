// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Role is the authorization tag carried by a user and by its tokens.
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleDeveloper || r == RoleAdmin
}

// UserStatus is the administrative state of an account as exposed by the
// admin API. It is stored as the IsActive flag.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is the credential record.
//
// PasswordHash is never serialized; public views are produced with
// [User.Public].
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Username     *string    `json:"username,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	// SchemaVersion is the row layout version the record was read with.
	SchemaVersion int `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Status maps the active flag onto the admin-facing status.
func (u User) Status() UserStatus {
	if u.IsActive {
		return UserStatusActive
	}
	return UserStatusSuspended
}

// Public returns the view of u that may leave the server.
func (u User) Public() UserPublic {
	return UserPublic{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Phone:       u.Phone,
		Role:        u.Role,
		Status:      u.Status(),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// UserPublic is the serialized user view.
type UserPublic struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Username    *string    `json:"username,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Role        Role       `json:"role"`
	Status      UserStatus `json:"status"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// RegisterRequest is the body of the registration endpoint.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Username *string `json:"username,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// LoginRequest carries either an email or a username in Login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPasswordResponse is returned with 202 whether or not the email is
// known. ResetToken is only filled outside production.
type ForgotPasswordResponse struct {
	Detail     string `json:"detail"`
	ResetToken string `json:"reset_token,omitempty"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type UserStatusUpdate struct {
	Status UserStatus `json:"status"`
}
