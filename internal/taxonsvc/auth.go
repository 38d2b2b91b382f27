package taxonsvc

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims of a client token
type Claims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// TokenValidator checks client tokens. With a secret it requires an HS256
// JWT signed with it; without one any non-empty token is accepted.
type TokenValidator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenValidator creates a validator. ttl bounds tokens issued by
// IssueToken.
func NewTokenValidator(secret string, ttl time.Duration) *TokenValidator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenValidator{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Enforced reports whether tokens are verified
func (v *TokenValidator) Enforced() bool {
	return len(v.secret) > 0
}

// Validate checks token and returns the client id it names. Unverified
// tokens name themselves.
func (v *TokenValidator) Validate(token string) (string, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return "", errors.New("token cannot be empty")
	}
	if !v.Enforced() {
		return token, nil
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.ClientID == "" {
		return "", errors.New("token names no client")
	}
	return claims.ClientID, nil
}

// IssueToken signs a token for clientID
func (v *TokenValidator) IssueToken(clientID string) (string, time.Time, error) {
	if clientID == "" {
		return "", time.Time{}, errors.New("clientID cannot be empty")
	}
	if !v.Enforced() {
		return "", time.Time{}, errors.New("no jwt secret configured")
	}

	now := v.now()
	expiresAt := now.Add(v.ttl)
	claims := Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create token: %w", err)
	}
	return signed, expiresAt, nil
}
