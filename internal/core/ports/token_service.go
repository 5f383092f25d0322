package ports

import "time"

// TokenClaims is the decoded payload of a verified session token.
type TokenClaims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed bearer tokens. Verify only proves
// the token is authentic and unexpired; callers must re-resolve the user and
// treat a missing account as an authentication failure.
type TokenService interface {
	Issue(userID string) (string, error)
	Verify(token string) (*TokenClaims, error)
}
