package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrMissingSecret is returned when tokens are requested without a signing secret.
var ErrMissingSecret = errors.New("token signing secret not configured")

// Issuer signs HS256 access tokens wrapping a caller-supplied payload.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. A non-positive ttl produces tokens without exp.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a compact JWS whose "payload" claim holds payload.
func (i *Issuer) Issue(payload map[string]string) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrMissingSecret
	}
	if payload == nil {
		payload = map[string]string{}
	}

	now := i.now()
	claims := jwt.MapClaims{
		"payload": payload,
		"iat":     now.Unix(),
		"jti":     uuid.NewString(),
	}
	if i.ttl > 0 {
		claims["exp"] = now.Add(i.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}
