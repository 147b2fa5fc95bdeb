// Package credential models the short-lived session credential the
// platform issues from CreateAuthenticatedSessionToken.
package credential

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCredential is an issued session token and its absolute
// expiry. A credential is a value: refreshing produces a new one.
type SessionCredential struct {
	Token   string
	Expires time.Time
}

// New builds a credential from an issued token and its expiry.
func New(token string, expires time.Time) *SessionCredential {
	return &SessionCredential{Token: token, Expires: expires}
}

// FromToken builds a credential from a bare token, recovering the
// expiry from the token's "exp" claim when the token is a JWT. The
// claim is read without signature verification; the platform, not this
// SDK, is the party that validates the token.
func FromToken(token string) *SessionCredential {
	cred := &SessionCredential{Token: token}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return cred
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return cred
	}
	cred.Expires = exp.Time
	return cred
}

// Expired reports whether the credential needs a refresh at the given
// instant. skew is subtracted from the expiry so the credential is
// renewed before the platform would reject it. A nil credential and a
// credential without a known expiry are both treated as expired.
func (c *SessionCredential) Expired(now time.Time, skew time.Duration) bool {
	if c == nil || c.Token == "" {
		return true
	}
	if c.Expires.IsZero() {
		return true
	}
	return !now.Before(c.Expires.Add(-skew))
}
