package userauth

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role is the account's global role
type Role = string

const (
	// RoleUser is the default role assigned on activation
	RoleUser Role = "user"
	// RoleAdmin may access administrative routes
	RoleAdmin Role = "admin"
)

// Account is the persisted account model. The core references it through the
// AccountStore boundary; only the Bun reference repository owns the schema
// mapping. PasswordHash is empty exactly when the account originated from
// social authentication.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string      `bun:"name,notnull" json:"name,omitempty"`
	Email         string      `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string      `bun:"password_hash" json:"-"`
	Role          Role        `bun:"role,notnull" json:"role,omitempty"`
	Verified      bool        `bun:"is_verified" json:"is_verified,omitempty"`
	AvatarURL     string      `bun:"avatar_url" json:"avatar_url,omitempty"`
	Courses       []uuid.UUID `bun:"courses,array" json:"courses,omitempty"`
	CreatedAt     *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasPassword reports whether the account can authenticate with credentials.
func (a *Account) HasPassword() bool {
	return a != nil && a.PasswordHash != ""
}

// Projection returns the session-resident view of the account: the fields
// the authorization gate and downstream handlers consume. Must be refreshed
// in the SessionStore whenever any of these fields change.
func (a *Account) Projection() *AccountProjection {
	return &AccountProjection{
		ID:        a.ID.String(),
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Verified:  a.Verified,
		AvatarURL: a.AvatarURL,
		Courses:   a.Courses,
	}
}

// AccountProjection is the Session Record payload, JSON-serialized into the
// SessionStore under the account id.
type AccountProjection struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      Role        `json:"role"`
	Verified  bool        `json:"is_verified"`
	AvatarURL string      `json:"avatar_url,omitempty"`
	Courses   []uuid.UUID `json:"courses,omitempty"`
}

// Encode serializes the projection for storage.
func (p *AccountProjection) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeProjection parses a stored session record.
func DecodeProjection(raw string) (*AccountProjection, error) {
	p := &AccountProjection{}
	if err := json.Unmarshal([]byte(raw), p); err != nil {
		return nil, err
	}
	return p, nil
}

// PendingRegistration is the ephemeral pre-activation value. It is embedded
// in the signed activation token and never persisted server-side; it is
// discarded on activation or expiry.
type PendingRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
