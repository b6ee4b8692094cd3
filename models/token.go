// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType discriminates session tokens from password-reset tokens.
type TokenType string

const (
	TokenTypeAccess        TokenType = "access"
	TokenTypePasswordReset TokenType = "password_reset"
)

// Claims is the signed claim set of every token issued by the server.
//
// The subject claim holds the user ID. Type must be checked by the caller:
// the signer accepts any claim set and verifies signature, issuer and expiry
// only.
type Claims struct {
	Email string    `json:"email,omitempty"`
	Role  Role      `json:"role,omitempty"`
	Type  TokenType `json:"type"`

	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// Token is the response of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`

	ExpiresAt time.Time `json:"-"`
}

// String returns the compact signed token.
func (t Token) String() string {
	return t.AccessToken
}
