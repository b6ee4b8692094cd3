// Package utils provides helpers shared by the server and the client:
// typed context keys, JSON response writing, token signing, password
// hashing, ID generation and the HTTP client wrapper.
package utils

import (
	"context"

	"github.com/MKhiriev/ai-pills/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey holds the authenticated user's ID (string).
var UserIDCtxKey = contextKey("userID")

// UserCtxKey holds the authenticated user (models.User).
var UserCtxKey = contextKey("user")

// GetUserIDFromContext returns the authenticated user's ID. ok is false when
// the value is missing, empty or of another type.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}

// WithUser stores the authenticated user and its ID in ctx.
func WithUser(ctx context.Context, user models.User) context.Context {
	ctx = context.WithValue(ctx, UserIDCtxKey, user.ID)
	return context.WithValue(ctx, UserCtxKey, user)
}

// GetUserFromContext returns the user stored by WithUser.
func GetUserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(models.User)
	return user, ok
}
