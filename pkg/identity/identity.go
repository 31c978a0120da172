// Package identity parses the tokens issued by the external identity
// provider. The core never infers identity from ambient state: every
// mutating operation receives an explicit Actor.
package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognized in tokens.
const (
	RoleAdmin        = "admin"
	RoleCollaborator = "collaborateur"
)

// Actor is the authenticated caller handed to every core operation.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the actor may perform administrative operations
// (amend, validate, invoice generation, registry writes).
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Claims are the standard JWT claims plus the application fields the
// identity provider embeds.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"` // "admin" | "collaborateur"
}

// Generate signs a token carrying userID and role. Used by tests and by
// operators minting service tokens; the production issuer is the external
// identity provider.
func Generate(secret, userID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("identity: empty secret")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Role:   role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse validates the token and returns the embedded actor.
// Returns an error for invalid, expired or badly signed tokens.
func Parse(secret, tokenString string) (Actor, error) {
	if secret == "" {
		return Actor{}, fmt.Errorf("identity: empty secret")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Actor{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Actor{}, fmt.Errorf("identity: invalid claims")
	}
	return Actor{UserID: claims.UserID, Role: claims.Role}, nil
}
