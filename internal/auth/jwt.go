package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned by Verify for any token that cannot be trusted:
// bad signature, malformed payload or elapsed expiration.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents the identity token payload.
// It embeds standard JWT claims and adds the user id and username.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Username string `json:"username"`
}

// Manager issues and verifies signed identity tokens. The signing secret is
// process-wide configuration; rotating it invalidates all outstanding tokens.
type Manager struct {
	signingSecretKey []byte
	tokenTTL         time.Duration
}

// NewManager creates a token manager with the given HMAC secret and token TTL.
func NewManager(signingSecretKey []byte, tokenTTL time.Duration) *Manager {
	return &Manager{
		signingSecretKey: signingSecretKey,
		tokenTTL:         tokenTTL,
	}
}

// TokenTTL returns the validity window of issued tokens.
func (m *Manager) TokenTTL() time.Duration {
	return m.tokenTTL
}

// Issue produces a signed, self-contained token for the given user,
// expiring after the configured TTL.
func (m *Manager) Issue(userID, username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
		UserID:   userID,
		Username: username,
	})

	tokenString, err := token.SignedString(m.signingSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify parses and validates a token string and returns its claims.
// There is no refresh mechanism: an expired token simply fails.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.signingSecretKey, nil
		},
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
