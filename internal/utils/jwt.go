package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/ai-pills/models"
	"github.com/golang-jwt/jwt/v5"
)

// SigningAlgorithm is the only algorithm the server signs and accepts.
const SigningAlgorithm = "HS256"

var (
	ErrInvalidTokenParams = errors.New("invalid params for JWT token")
	ErrInvalidAuthHeader  = errors.New("invalid authorization header")
)

// TokenSigner issues and verifies HMAC-SHA256 tokens with a single
// process-wide secret. It has no revocation state: a token stays valid until
// its exp claim passes.
type TokenSigner struct {
	signKey []byte
	issuer  string
	now     func() time.Time
}

// NewTokenSigner returns a signer for the given secret and issuer.
func NewTokenSigner(signKey, issuer string) (*TokenSigner, error) {
	if signKey == "" || issuer == "" {
		return nil, fmt.Errorf("%w: sign key and issuer are required", ErrInvalidTokenParams)
	}

	return &TokenSigner{
		signKey: []byte(signKey),
		issuer:  issuer,
		now:     time.Now,
	}, nil
}

// Issue signs claims with iss, iat and exp = now + ttl filled in. The
// caller's subject, email, role and type are kept as given.
func (s *TokenSigner) Issue(claims models.Claims, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("%w: ttl must be positive", ErrInvalidTokenParams)
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	claims.Issuer = s.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify checks signature, algorithm, issuer and expiry. It returns nil on
// any failure so that invalid and expired tokens look the same to callers.
func (s *TokenSigner) Verify(tokenString string) *models.Claims {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.signKey, nil
	},
		jwt.WithValidMethods([]string{SigningAlgorithm}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil
	}
	if claims.Subject == "" {
		return nil
	}

	return claims
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidAuthHeader
	}
	return parts[1], nil
}
