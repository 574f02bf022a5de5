package userauth

import (
	"os"
	"strconv"
	"time"
)

// BaseConfig is the concrete Config used by the example server and tests.
type BaseConfig struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	ActivationSecret   string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	ActivationTTL      time.Duration
	SessionTTL         time.Duration
	Issuer             string
	AccessCookieName   string
	RefreshCookieName  string
	CookieSecure       bool
}

var _ Config = (*BaseConfig)(nil)

// NewBaseConfig returns a config with the default lifetimes: 5 minute access
// tokens and activation windows, 3 day refresh tokens, sessions without a
// store-side TTL.
func NewBaseConfig(accessSecret, refreshSecret, activationSecret string) *BaseConfig {
	return &BaseConfig{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		ActivationSecret:   activationSecret,
		AccessTokenTTL:     5 * time.Minute,
		RefreshTokenTTL:    72 * time.Hour,
		ActivationTTL:      5 * time.Minute,
		AccessCookieName:   "access_token",
		RefreshCookieName:  "refresh_token",
	}
}

// ConfigFromEnv builds a BaseConfig from environment variables:
// ACCESS_TOKEN_SECRET, REFRESH_TOKEN_SECRET, ACTIVATION_SECRET, and the
// optional ACCESS_TOKEN_EXPIRE_MINUTES, REFRESH_TOKEN_EXPIRE_DAYS,
// SESSION_TTL_DAYS, TOKEN_ISSUER, COOKIE_SECURE overrides.
func ConfigFromEnv() *BaseConfig {
	cfg := NewBaseConfig(
		os.Getenv("ACCESS_TOKEN_SECRET"),
		os.Getenv("REFRESH_TOKEN_SECRET"),
		os.Getenv("ACTIVATION_SECRET"),
	)

	if v, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES")); err == nil && v > 0 {
		cfg.AccessTokenTTL = time.Duration(v) * time.Minute
	}

	if v, err := strconv.Atoi(os.Getenv("REFRESH_TOKEN_EXPIRE_DAYS")); err == nil && v > 0 {
		cfg.RefreshTokenTTL = time.Duration(v) * 24 * time.Hour
	}

	if v, err := strconv.Atoi(os.Getenv("SESSION_TTL_DAYS")); err == nil && v > 0 {
		cfg.SessionTTL = time.Duration(v) * 24 * time.Hour
	}

	if v := os.Getenv("TOKEN_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	if v, err := strconv.ParseBool(os.Getenv("COOKIE_SECURE")); err == nil {
		cfg.CookieSecure = v
	}

	return cfg
}

func (c *BaseConfig) GetAccessTokenSecret() string { return c.AccessTokenSecret }
func (c *BaseConfig) GetRefreshTokenSecret() string { return c.RefreshTokenSecret }
func (c *BaseConfig) GetActivationSecret() string { return c.ActivationSecret }
func (c *BaseConfig) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }
func (c *BaseConfig) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }
func (c *BaseConfig) GetActivationTTL() time.Duration { return c.ActivationTTL }
func (c *BaseConfig) GetSessionTTL() time.Duration { return c.SessionTTL }
func (c *BaseConfig) GetIssuer() string { return c.Issuer }
func (c *BaseConfig) GetAccessCookieName() string { return c.AccessCookieName }
func (c *BaseConfig) GetRefreshCookieName() string { return c.RefreshCookieName }
func (c *BaseConfig) GetCookieSecure() bool { return c.CookieSecure }
