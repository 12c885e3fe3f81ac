package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
)

// IssueActorToken signs an HS256 token that AuthMiddleware accepts for actor.
// Production tokens come from the identity service; this serves local tooling and tests.
func IssueActorToken(actor domain.Actor, secret, issuer string, ttl time.Duration) (string, error) {
	if actor.UserID == "" || actor.TenantID == "" {
		return "", errors.New("actor needs a user and a tenant")
	}
	now := time.Now()
	claims := ActorClaims{
		TenantID:     actor.TenantID,
		IsSuperAdmin: actor.IsSuperAdmin,
		RoleLevel:    actor.RoleLevel,
		Department:   actor.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
