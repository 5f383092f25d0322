package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// TokenConfig carries the signing material for session tokens. The secret
// is injected at construction; nothing in here reads the environment.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// TokenService issues and verifies HS256-signed session tokens binding a
// user id to a validity window.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	// now is swappable for expiry tests.
	now func() time.Time
}

func NewTokenService(cfg TokenConfig) *TokenService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(cfg.Secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the given user id with the configured TTL.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the decoded claims.
// It does not check that the user still exists; callers must re-resolve the
// identity and treat a missing account as an authentication failure.
func (s *TokenService) Verify(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrAuthentication
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.ErrAuthentication
	}

	out := &ports.TokenClaims{UserID: sub}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
