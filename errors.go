package userauth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds     = "invalid_credentials"
	TextCodeEmailExists      = "email_already_exists"
	TextCodeTokenExpired     = "token_expired"
	TextCodeBadSignature     = "token_invalid_signature"
	TextCodeCodeMismatch     = "activation_code_mismatch"
	TextCodeSessionNotFound  = "session_not_found"
	TextCodeUnauthenticated  = "unauthenticated"
	TextCodeForbidden        = "forbidden"
	TextCodeMailFailed       = "activation_mail_failed"
	TextCodeAccountNotFound  = "account_not_found"
	TextCodePasswordMismatch = "password_mismatch"
	TextCodeInvalidPayload   = "invalid_payload"
)

// ErrInvalidCredentials covers unknown emails, social-only accounts with no
// password hash, and bcrypt mismatches. The cases are indistinguishable to
// the caller on purpose.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeBadRequest)

// ErrEmailAlreadyExists is returned when an account with the email already exists.
var ErrEmailAlreadyExists = errors.New("email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailExists).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned for activation or refresh tokens past their TTL.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeBadRequest)

// ErrInvalidSignature is returned for tampered or mis-signed tokens.
var ErrInvalidSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeBadSignature).
	WithCode(errors.CodeBadRequest)

// ErrCodeMismatch is returned when the supplied activation code differs from
// the one embedded in the activation token.
var ErrCodeMismatch = errors.New("activation code does not match", errors.CategoryAuth).
	WithTextCode(TextCodeCodeMismatch).
	WithCode(errors.CodeBadRequest)

// ErrSessionNotFound is returned when a token decodes cleanly but the
// server-side session record is gone: logged out, evicted, or expired.
var ErrSessionNotFound = errors.New("session not found", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is the blanket gate failure for missing or unusable
// access credentials. Clients are expected to call the refresh endpoint.
var ErrUnauthenticated = errors.New("please login to access this resource", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when the caller is authenticated but its role is
// not in the route's required set.
var ErrForbidden = errors.New("role is not allowed to access this resource", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrMailDeliveryFailed is surfaced when the activation email cannot be
// dispatched; registration fails without retry.
var ErrMailDeliveryFailed = errors.New("could not send activation email", errors.CategoryOperation).
	WithTextCode(TextCodeMailFailed).
	WithCode(errors.CodeBadRequest)

// ErrAccountNotFound is returned when an id decoded from a valid token no
// longer maps to a persisted account.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeBadRequest)

// ErrPasswordMismatch is returned by password updates when the current
// password check fails.
var ErrPasswordMismatch = errors.New("current password is incorrect", errors.CategoryAuth).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeBadRequest)

// ErrInvalidPayload is returned for request bodies that fail to bind or
// validate.
var ErrInvalidPayload = errors.New("invalid request payload", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidPayload).
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsInvalidSignatureError will check for tampered tokens
func IsInvalidSignatureError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidSignature) {
		return true
	}
	return strings.Contains(err.Error(), "signature is invalid")
}

// IsSessionNotFoundError reports whether err means the server-side session
// record is absent.
func IsSessionNotFoundError(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}
