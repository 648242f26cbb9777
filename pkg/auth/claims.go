package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims is the typed JWT payload issued to clients. The
// registered subject carries the user's email; user_id pins the account so a
// later email change cannot re-point an old token.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// Principal is the resolved identity of the caller for the duration of one
// request. It is reconstructed from a verified token on every request and
// never persisted.
type Principal struct {
	UserID uuid.UUID
	Email  string
}
