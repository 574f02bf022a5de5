package userauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenIssuer mints and verifies the access/refresh pair. The two token
// kinds use independent secrets so leaking one does not compromise the
// other. State is limited to the injected Config; issuers are safe for
// concurrent use.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	logger        Logger
}

// NewTokenIssuer creates a TokenIssuer from the process config.
func NewTokenIssuer(cfg Config) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.GetAccessTokenSecret()),
		refreshSecret: []byte(cfg.GetRefreshTokenSecret()),
		accessTTL:     cfg.GetAccessTokenTTL(),
		refreshTTL:    cfg.GetRefreshTokenTTL(),
		issuer:        cfg.GetIssuer(),
		logger:        defLogger{},
	}
}

func (ti *TokenIssuer) WithLogger(logger Logger) *TokenIssuer {
	if logger != nil {
		ti.logger = logger
	}
	return ti
}

// AccessTTL exposes the configured access token lifetime for cookie expiry.
func (ti *TokenIssuer) AccessTTL() time.Duration { return ti.accessTTL }

// RefreshTTL exposes the configured refresh token lifetime for cookie expiry.
func (ti *TokenIssuer) RefreshTTL() time.Duration { return ti.refreshTTL }

// IssueAccessToken mints a short-lived HS256 token carrying the account id
// and role.
func (ti *TokenIssuer) IssueAccessToken(accountID string, role Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ti.accessTTL)

	claims := &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:      accountID,
		UserRole: string(role),
	}

	signed, err := signClaims(claims, ti.accessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// IssueRefreshToken mints a long-lived HS256 token carrying only the
// account id.
func (ti *TokenIssuer) IssueRefreshToken(accountID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ti.refreshTTL)

	claims := &RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID: accountID,
	}

	signed, err := signClaims(claims, ti.refreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// IssuePair mints both tokens for the account.
func (ti *TokenIssuer) IssuePair(accountID string, role Role) (*TokenPair, error) {
	access, accessExp, err := ti.IssueAccessToken(accountID, role)
	if err != nil {
		return nil, err
	}

	refresh, refreshExp, err := ti.IssueRefreshToken(accountID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccessToken parses and validates an access token string.
func (ti *TokenIssuer) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := ti.parse(tokenString, claims, ti.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken parses and validates a refresh token string.
func (ti *TokenIssuer) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := ti.parse(tokenString, claims, ti.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (ti *TokenIssuer) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ti.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ti.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ti.logger.Error("TokenIssuer verify encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, parserOptions...)

	if err != nil {
		return mapJWTError(err)
	}

	if !token.Valid {
		return ErrInvalidSignature
	}

	return nil
}

func signClaims(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	default:
		return errors.Wrap(err, ErrInvalidSignature.Category, ErrInvalidSignature.Message).
			WithTextCode(ErrInvalidSignature.TextCode).
			WithCode(ErrInvalidSignature.Code)
	}
}
