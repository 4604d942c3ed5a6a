// Package token issues the HS256 access tokens verified by httpkit.AuthRequired.
package token

import (
	"time"

	"pipeline_backend/platform/httpkit"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer signs access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer for tokens valid for ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an access token for userID carrying roles.
func (i *Issuer) Issue(userID uuid.UUID, roles []string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	if roles == nil {
		roles = []string{}
	}

	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  httpkit.AccessTokenType,
		"roles": roles,
		"exp":   expiresAt.Unix(),
		"iat":   now.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
