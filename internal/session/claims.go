package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what newsdesk can read from a JWT bearer token.
// The signature is never checked; these values are for display only.
type TokenClaims struct {
	Subject   string         `json:"subject,omitempty" yaml:"subject,omitempty"`
	Issuer    string         `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	IssuedAt  *time.Time     `json:"issuedAt,omitempty" yaml:"issuedAt,omitempty"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
	Other     map[string]any `json:"other,omitempty" yaml:"other,omitempty"`
}

// Expired reports whether the token carries an expiry in the past
func (c *TokenClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// InspectToken decodes token as an unverified JWT. Opaque tokens return ok=false.
func InspectToken(token string) (*TokenClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}

	out := &TokenClaims{Other: map[string]any{}}
	out.Subject, _ = claims.GetSubject()
	out.Issuer, _ = claims.GetIssuer()
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		out.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}

	for k, v := range claims {
		switch k {
		case "sub", "iss", "iat", "exp":
			continue
		}
		out.Other[k] = v
	}
	if len(out.Other) == 0 {
		out.Other = nil
	}
	return out, true
}
