package token

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/procurecontract/session-service/internal/core/domain"
)

const (
	defaultTTL    = 24 * time.Hour
	issuer        = "procurecontract"
	secretByteLen = 32
)

// JWTIssuer mints HS256 tokens for sessions. The tokens are opaque to the
// rest of the service; nothing verifies them on the way back in.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer returns an issuer signing with secret. An empty secret is
// replaced by a random per-process key, so tokens minted by one process are
// meaningless to another.
func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, secretByteLen)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
	}
	return &JWTIssuer{secret: key, ttl: ttl, now: time.Now}, nil
}

// Issue satisfies ports.TokenIssuer.
func (i *JWTIssuer) Issue(session *domain.Session) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"iss":      issuer,
		"sub":      session.UserID,
		"username": session.Username,
		"role":     string(session.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(i.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
