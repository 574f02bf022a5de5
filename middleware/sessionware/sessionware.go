// Package sessionware is the per-request authorization gate: it extracts the
// access token cookie, verifies it, hydrates the caller's identity from the
// session store, and optionally enforces role membership. Collaborators are
// function types rather than the root package's concrete services so the
// root package can depend on this one without an import cycle.
package sessionware

import (
	"context"
	"encoding/json"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

const (
	// DefaultCookieName is where the access token travels.
	DefaultCookieName = "access_token"
	// DefaultContextKey is the locals key holding the *SessionAccount.
	DefaultContextKey = "session"
)

// ErrMissingToken is returned when the request carries no access cookie.
var ErrMissingToken = errors.New("please login to access this resource", errors.CategoryAuth).
	WithTextCode("unauthenticated").
	WithCode(errors.CodeUnauthorized)

// ErrInvalidToken is returned for expired or tampered access tokens; the
// client is expected to call the refresh endpoint.
var ErrInvalidToken = errors.New("access token is invalid or expired", errors.CategoryAuth).
	WithTextCode("unauthenticated").
	WithCode(errors.CodeUnauthorized)

// ErrSessionRevoked is returned when the token verifies but the server-side
// session record is gone.
var ErrSessionRevoked = errors.New("session not found", errors.CategoryAuth).
	WithTextCode("session_not_found").
	WithCode(errors.CodeUnauthorized)

// Claims mirrors the root package's access claims without importing it.
type Claims interface {
	UserID() string
	Role() string
}

// TokenVerifier validates a raw access token string.
type TokenVerifier func(tokenString string) (Claims, error)

// SessionReader fetches the serialized session record for an account id.
type SessionReader func(ctx context.Context, accountID string) (string, error)

// SessionAccount is the deserialized session record attached to the request.
type SessionAccount struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	Verified  bool     `json:"is_verified"`
	AvatarURL string   `json:"avatar_url,omitempty"`
	Courses   []string `json:"courses,omitempty"`
}

type Config struct {
	// CookieName holding the access token. Default: DefaultCookieName.
	CookieName string
	// ContextKey under which the *SessionAccount is stored in locals.
	// Default: DefaultContextKey.
	ContextKey string
	// Verifier is required.
	Verifier TokenVerifier
	// Sessions is required.
	Sessions SessionReader
	// Roles, when non-empty, is the route's required role set.
	Roles []string
	// ErrorHandler renders gate failures. Defaults to a JSON envelope keyed
	// off the rich error's code.
	ErrorHandler func(router.Context, error) error
}

func (c *Config) setDefaults() {
	if c.CookieName == "" {
		c.CookieName = DefaultCookieName
	}
	if c.ContextKey == "" {
		c.ContextKey = DefaultContextKey
	}
	if c.ErrorHandler == nil {
		c.ErrorHandler = defaultErrorHandler
	}
}

// New builds the gate middleware. Pipeline: cookie -> token verify ->
// session read -> locals attach -> optional role check. Presence of a valid
// session record is required in addition to token validity; that lookup is
// the revocation mechanism, not an optimization.
func New(cfg Config) router.MiddlewareFunc {
	cfg.setDefaults()

	if cfg.Verifier == nil || cfg.Sessions == nil {
		panic("sessionware: Verifier and Sessions are required")
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			tokenString := ctx.Cookies(cfg.CookieName)
			if tokenString == "" {
				return cfg.ErrorHandler(ctx, ErrMissingToken)
			}

			claims, err := cfg.Verifier(tokenString)
			if err != nil {
				return cfg.ErrorHandler(ctx, ErrInvalidToken)
			}

			raw, err := cfg.Sessions(ctx.Context(), claims.UserID())
			if err != nil {
				return cfg.ErrorHandler(ctx, ErrSessionRevoked)
			}

			account := &SessionAccount{}
			if err := json.Unmarshal([]byte(raw), account); err != nil {
				return cfg.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryInternal, "failed to decode session record"))
			}

			ctx.Locals(cfg.ContextKey, account)

			if len(cfg.Roles) > 0 && !containsRole(cfg.Roles, account.Role) {
				return cfg.ErrorHandler(ctx, forbiddenError(account.Role, cfg.Roles))
			}

			return ctx.Next()
		}
	}
}

// RequireRoles gates an already authenticated route on role membership. It
// expects a previous New(...) middleware to have attached the account.
func RequireRoles(contextKey string, roles ...string) router.MiddlewareFunc {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			account, ok := AccountFromContext(ctx, contextKey)
			if !ok {
				return defaultErrorHandler(ctx, ErrMissingToken)
			}

			if !containsRole(roles, account.Role) {
				return defaultErrorHandler(ctx, forbiddenError(account.Role, roles))
			}

			return ctx.Next()
		}
	}
}

// AccountFromContext retrieves the session account attached by the gate.
func AccountFromContext(ctx router.Context, key string) (*SessionAccount, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	account, ok := raw.(*SessionAccount)
	return account, ok
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func forbiddenError(role string, required []string) error {
	return errors.New("role "+role+" is not allowed to access this resource", errors.CategoryAuthz).
		WithTextCode("forbidden").
		WithCode(errors.CodeForbidden).
		WithMetadata(map[string]any{
			"role":           role,
			"required_roles": required,
		})
}

func defaultErrorHandler(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "unexpected gate error").
			WithCode(errors.CodeInternal)
	}

	return ctx.JSON(richErr.Code, map[string]any{
		"success": false,
		"error": map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		},
	})
}
