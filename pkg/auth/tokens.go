package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenCodec issues and verifies the stateless session tokens protecting
// the inbound API. Tokens carry only a subject and an expiry; there is no
// server-side revocation, so a verified token is trusted for its entire
// validity window.
type TokenCodec struct {
	key    []byte
	method jwt.SigningMethod
	ttl    time.Duration

	now func() time.Time
}

func NewTokenCodec(signingKey, algorithm string, ttl time.Duration) (*TokenCodec, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm: %s", algorithm)
	}

	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %s is not symmetric", algorithm)
	}

	return &TokenCodec{
		key:    []byte(signingKey),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue encodes a session token for the given subject, expiring after the
// configured TTL.
func (c *TokenCodec) Issue(subject string) (string, error) {
	now := c.now()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	token, err := jwt.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}

	return token, nil
}

// Verify validates the signature and expiry of a session token and returns
// its subject. Any decode, signature, or expiry failure yields ok=false;
// the caller maps that to an unauthenticated response.
func (c *TokenCodec) Verify(token string) (string, bool) {
	claims := &jwt.RegisteredClaims{}

	// Claims validation is done against c.now below, so expiry stays
	// testable with a fixed clock.
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return c.key, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return "", false
	}

	if !claims.VerifyExpiresAt(c.now(), true) {
		return "", false
	}

	if claims.Subject == "" {
		return "", false
	}

	return claims.Subject, true
}
