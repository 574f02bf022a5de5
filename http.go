package userauth

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// SetTokenCookies writes the access and refresh cookies for a freshly minted
// pair. Both are HTTP-only; the Secure flag follows Config so local dev over
// plain HTTP keeps working.
func SetTokenCookies(c router.Context, cfg Config, pair *TokenPair) {
	c.Cookie(&router.Cookie{
		Name:     cfg.GetAccessCookieName(),
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HTTPOnly: true,
		Secure:   cfg.GetCookieSecure(),
		SameSite: "Lax",
	})

	c.Cookie(&router.Cookie{
		Name:     cfg.GetRefreshCookieName(),
		Value:    pair.RefreshToken,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		HTTPOnly: true,
		Secure:   cfg.GetCookieSecure(),
		SameSite: "Lax",
	})
}

// ClearTokenCookies expires both token cookies.
func ClearTokenCookies(c router.Context, cfg Config) {
	for _, name := range []string{cfg.GetAccessCookieName(), cfg.GetRefreshCookieName()} {
		c.Cookie(&router.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Now().Add(-time.Hour * (24 * 365)),
			HTTPOnly: true,
			Secure:   cfg.GetCookieSecure(),
			SameSite: "Lax",
		})
	}
}

// WriteError renders err as the JSON error envelope, taking the HTTP status
// from the rich error's code. Anything that is not already a rich error is
// treated as an internal failure.
func WriteError(c router.Context, logger Logger, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	if logger != nil {
		logger.Debug("request failed %s: %s", richErr.TextCode, print.MaybePrettyJSON(richErr.Metadata))
	}

	status := richErr.Code
	if status == 0 {
		status = errors.CodeInternal
	}

	return c.JSON(status, map[string]any{
		"success": false,
		"error": map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		},
	})
}
