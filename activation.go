package userauth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// ActivationCodec mints and verifies activation tokens: a signed, time-boxed
// envelope around a pending registration plus a one-time 4-digit code. The
// token goes back to the registering client; the code travels out-of-band by
// email. Activation requires presenting both.
type ActivationCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewActivationCodec creates a codec from the process config.
func NewActivationCodec(cfg Config) *ActivationCodec {
	return &ActivationCodec{
		secret: []byte(cfg.GetActivationSecret()),
		ttl:    cfg.GetActivationTTL(),
		issuer: cfg.GetIssuer(),
	}
}

// Issue embeds the pending registration and a fresh code into a signed
// token. It performs no store access; the pending value's only durability is
// the returned token.
func (c *ActivationCodec) Issue(pending PendingRegistration) (token string, code string, err error) {
	code, err = activationCode()
	if err != nil {
		return "", "", errors.Wrap(err, errors.CategoryInternal, "failed to generate activation code")
	}

	now := time.Now()
	claims := &activationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   pending.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Pending: pending,
		Code:    code,
	}

	token, err = signClaims(claims, c.secret)
	if err != nil {
		return "", "", err
	}

	return token, code, nil
}

// Verify validates signature and expiry, then compares the supplied code
// against the embedded one. The expiry check runs first: an expired token
// fails with ErrTokenExpired even when the code would have matched.
func (c *ActivationCodec) Verify(token, suppliedCode string) (*PendingRegistration, error) {
	claims := &activationClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, mapJWTError(err)
	}

	if !parsed.Valid {
		return nil, ErrInvalidSignature
	}

	if claims.Code != suppliedCode {
		return nil, ErrCodeMismatch
	}

	pending := claims.Pending
	return &pending, nil
}

// activationCode draws a uniform 4-digit numeric code from crypto/rand.
func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
