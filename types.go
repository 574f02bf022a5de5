package userauth

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the immutable process-wide auth options. Constructed once at
// startup and injected by reference; nothing mutates it afterwards.
type Config interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetActivationSecret() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetActivationTTL() time.Duration
	GetSessionTTL() time.Duration
	GetIssuer() string
	GetAccessCookieName() string
	GetRefreshCookieName() string
	GetCookieSecure() bool
}

// AccountStore is the persistent account boundary. The core calls these four
// operations and owns no schema; see repo_accounts.go for the Bun reference
// implementation.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	Create(ctx context.Context, account *Account, criteria ...repository.InsertCriteria) (*Account, error)
	Update(ctx context.Context, account *Account, criteria ...repository.UpdateCriteria) (*Account, error)
}

// SessionStore maps an account id to a serialized AccountProjection with
// optional expiry. Get returns ErrSessionNotFound when the key is absent.
// Writes are last-writer-wins per key; the store is treated as externally
// atomic.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Email is a template dispatch request handed to the Mailer boundary.
type Email struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// Mailer delivers transactional mail. Failures propagate to the caller as
// registration errors; the core never retries.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// TokenPair is the result of Login, SocialAuth, and Refresh: a short-lived
// access token and a long-lived refresh token with their expiry instants,
// transported to the client as cookies.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Manager holds the session lifecycle operations. SessionManager is the
// default implementation.
type Manager interface {
	Register(ctx context.Context, pending PendingRegistration) (string, error)
	Activate(ctx context.Context, token, code string) (*Account, error)
	Login(ctx context.Context, email, password string) (*Account, *TokenPair, error)
	SocialAuth(ctx context.Context, name, email, avatarURL string) (*Account, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*AccountProjection, *TokenPair, error)
	Logout(ctx context.Context, accountID string) error
	UpdateProfile(ctx context.Context, accountID string, name, email string) (*Account, error)
	UpdatePassword(ctx context.Context, accountID string, current, updated string) (*Account, error)
	UpdateAvatar(ctx context.Context, accountID string, avatarURL string) (*Account, error)
	IdentityFromSession(ctx context.Context, accountID string) (*AccountProjection, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] USERAUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] USERAUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] USERAUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
