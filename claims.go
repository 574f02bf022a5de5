package userauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the payload of an access token: the account id plus its
// role so the gate can short-circuit obvious mismatches before the session
// lookup.
type AccessClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
}

// UserID returns the account id carried by the token.
func (c *AccessClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Role returns the global role claim.
func (c *AccessClaims) Role() string {
	return c.UserRole
}

// Expires returns the expiry instant, zero when absent.
func (c *AccessClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// RefreshClaims carries only the account id; refresh tokens grant nothing on
// their own beyond the right to attempt a rotation.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UID string `json:"uid,omitempty"`
}

// UserID returns the account id carried by the token.
func (c *RefreshClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// activationClaims binds the pending registration to the out-of-band code.
// Possessing the token without the code (or vice versa) is insufficient.
type activationClaims struct {
	jwt.RegisteredClaims
	Pending PendingRegistration `json:"pending"`
	Code    string              `json:"code"`
}
