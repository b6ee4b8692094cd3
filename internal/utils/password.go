// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrHashing reports that the password hashing primitive is unusable. It is
// returned by NewPasswordHasher and is fatal at process start.
var ErrHashing = errors.New("password hashing is unavailable")

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher validates cost and runs one hash/verify cycle so a
// broken primitive is detected at startup instead of on the first login.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d out of range [%d, %d]", ErrHashing, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	h := &PasswordHasher{cost: cost}
	probe, err := bcrypt.GenerateFromPassword([]byte("self-test"), cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHashing, err)
	}
	if !h.Verify("self-test", string(probe)) {
		return nil, fmt.Errorf("%w: self-test verification failed", ErrHashing)
	}

	return h, nil
}

// Hash returns the salted bcrypt hash of plaintext.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. Malformed hashes and any
// other error yield false.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
