package userauth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// SessionManager orchestrates the account lifecycle: registration,
// activation, credential and social login, token rotation, logout, and the
// profile mutations that must keep the session record fresh.
//
// Per-account states: Anonymous -> PendingActivation (Register) ->
// Anonymous-with-account (Activate) -> Active (Login/SocialAuth) ->
// Anonymous (Logout). The SessionStore record is the materialization of the
// Active state.
type SessionManager struct {
	accounts AccountStore
	sessions SessionStore
	verifier *CredentialVerifier
	issuer   *TokenIssuer
	codec    *ActivationCodec
	mailer   Mailer
	cfg      Config
	logger   Logger
}

var _ Manager = (*SessionManager)(nil)

// NewSessionManager returns a manager wired to the two mandatory stores.
// There is no default mailer; Register fails until one is injected with
// WithMailer.
func NewSessionManager(cfg Config, accounts AccountStore, sessions SessionStore) *SessionManager {
	return &SessionManager{
		accounts: accounts,
		sessions: sessions,
		verifier: NewCredentialVerifier(accounts),
		issuer:   NewTokenIssuer(cfg),
		codec:    NewActivationCodec(cfg),
		cfg:      cfg,
		logger:   defLogger{},
	}
}

func (m *SessionManager) WithLogger(logger Logger) *SessionManager {
	if logger != nil {
		m.logger = logger
		m.verifier = m.verifier.WithLogger(logger)
		m.issuer = m.issuer.WithLogger(logger)
	}
	return m
}

// WithMailer configures the activation mail channel.
func (m *SessionManager) WithMailer(mailer Mailer) *SessionManager {
	m.mailer = mailer
	return m
}

// WithTokenIssuer overrides the default issuer, mainly for tests that need
// custom lifetimes.
func (m *SessionManager) WithTokenIssuer(issuer *TokenIssuer) *SessionManager {
	if issuer != nil {
		m.issuer = issuer
	}
	return m
}

// WithActivationCodec overrides the default codec.
func (m *SessionManager) WithActivationCodec(codec *ActivationCodec) *SessionManager {
	if codec != nil {
		m.codec = codec
	}
	return m
}

// TokenIssuer exposes the issuer for gate wiring.
func (m *SessionManager) TokenIssuer() *TokenIssuer {
	return m.issuer
}

// Sessions exposes the session store for gate wiring.
func (m *SessionManager) Sessions() SessionStore {
	return m.sessions
}

// Register starts the activation flow: uniqueness check, activation token
// mint, code dispatch by mail. The pending registration is not persisted;
// concurrent registrations for the same email each get their own token and
// race at Activate time instead.
func (m *SessionManager) Register(ctx context.Context, pending PendingRegistration) (string, error) {
	if _, err := m.accounts.FindByEmail(ctx, pending.Email); err == nil {
		return "", ErrEmailAlreadyExists
	} else if !errors.IsNotFound(err) && !errors.Is(err, ErrAccountNotFound) {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to check email uniqueness")
	}

	token, code, err := m.codec.Issue(pending)
	if err != nil {
		m.logger.Error("Register could not issue activation token: %s", err)
		return "", err
	}

	if m.mailer == nil {
		return "", ErrMailDeliveryFailed
	}

	err = m.mailer.Send(ctx, Email{
		To:       pending.Email,
		Subject:  "Activate your account",
		Template: "activation-mail",
		Data: map[string]any{
			"name":            pending.Name,
			"activation_code": code,
		},
	})
	if err != nil {
		m.logger.Error("Register mail dispatch failed for %s: %s", pending.Email, err)
		return "", ErrMailDeliveryFailed
	}

	return token, nil
}

// Activate consumes an activation token and its code, re-checks email
// uniqueness, and persists the verified account with role "user". The store's
// unique constraint serializes concurrent activations for the same email;
// the second writer surfaces ErrEmailAlreadyExists.
func (m *SessionManager) Activate(ctx context.Context, token, code string) (*Account, error) {
	pending, err := m.codec.Verify(token, code)
	if err != nil {
		return nil, err
	}

	if _, err := m.accounts.FindByEmail(ctx, pending.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.IsNotFound(err) && !errors.Is(err, ErrAccountNotFound) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email uniqueness")
	}

	hash, err := HashPassword(pending.Password)
	if err != nil {
		return nil, err
	}

	account, err := m.accounts.Create(ctx, &Account{
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: hash,
		Role:         RoleUser,
		Verified:     true,
	})
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist activated account")
	}

	return account, nil
}

// Login verifies credentials, mints a token pair, and materializes the
// session record.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*Account, *TokenPair, error) {
	account, err := m.verifier.Verify(ctx, email, password)
	if err != nil {
		m.logger.Info("Login verification failed for %s: %s", email, err)
		return nil, nil, err
	}

	pair, err := m.establishSession(ctx, account)
	if err != nil {
		return nil, nil, err
	}

	return account, pair, nil
}

// SocialAuth looks up or creates a passwordless account for the email and
// establishes a session exactly like Login.
func (m *SessionManager) SocialAuth(ctx context.Context, name, email, avatarURL string) (*Account, *TokenPair, error) {
	account, err := m.accounts.FindByEmail(ctx, email)
	if err != nil {
		if !errors.IsNotFound(err) && !errors.Is(err, ErrAccountNotFound) {
			return nil, nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up social account")
		}

		account, err = m.accounts.Create(ctx, &Account{
			Name:      name,
			Email:     email,
			Role:      RoleUser,
			Verified:  true,
			AvatarURL: avatarURL,
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.CategoryInternal, "failed to create social account")
		}
	}

	pair, err := m.establishSession(ctx, account)
	if err != nil {
		return nil, nil, err
	}

	return account, pair, nil
}

// Refresh rotates the token pair. The refresh token must verify AND the
// session record must still exist: a valid token for an evicted session
// fails with ErrSessionNotFound and mints nothing, which is what makes
// Logout stick despite long-lived refresh tokens. The session record itself
// is not rewritten.
func (m *SessionManager) Refresh(ctx context.Context, refreshToken string) (*AccountProjection, *TokenPair, error) {
	claims, err := m.issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	raw, err := m.sessions.Get(ctx, claims.UserID())
	if err != nil {
		if IsSessionNotFoundError(err) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, errors.Wrap(err, errors.CategoryInternal, "failed to read session during refresh")
	}

	projection, err := DecodeProjection(raw)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CategoryInternal, "failed to decode session record")
	}

	pair, err := m.issuer.IssuePair(projection.ID, projection.Role)
	if err != nil {
		return nil, nil, err
	}

	return projection, pair, nil
}

// Logout deletes the session record and reports nothing when the key was
// already gone. Cookie clearing is the HTTP layer's job.
func (m *SessionManager) Logout(ctx context.Context, accountID string) error {
	if err := m.sessions.Delete(ctx, accountID); err != nil && !IsSessionNotFoundError(err) {
		m.logger.Error("Logout session delete failed for %s: %s", accountID, err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete session")
	}
	return nil
}

// IdentityFromSession returns the caller's session-resident projection.
func (m *SessionManager) IdentityFromSession(ctx context.Context, accountID string) (*AccountProjection, error) {
	raw, err := m.sessions.Get(ctx, accountID)
	if err != nil {
		if IsSessionNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read session")
	}
	return DecodeProjection(raw)
}

// UpdateProfile mutates name and email, then overwrites the session record
// so the gate never sees stale fields.
func (m *SessionManager) UpdateProfile(ctx context.Context, accountID string, name, email string) (*Account, error) {
	account, err := m.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if email != "" && email != account.Email {
		if _, err := m.accounts.FindByEmail(ctx, email); err == nil {
			return nil, ErrEmailAlreadyExists
		} else if !errors.IsNotFound(err) && !errors.Is(err, ErrAccountNotFound) {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email uniqueness")
		}
		account.Email = email
	}

	if name != "" {
		account.Name = name
	}

	return m.saveAndRefreshSession(ctx, account)
}

// UpdatePassword verifies the current password before storing the new hash,
// then refreshes the session record.
func (m *SessionManager) UpdatePassword(ctx context.Context, accountID string, current, updated string) (*Account, error) {
	account, err := m.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(current, account.PasswordHash); err != nil {
		return nil, ErrPasswordMismatch
	}

	hash, err := HashPassword(updated)
	if err != nil {
		return nil, err
	}
	account.PasswordHash = hash

	return m.saveAndRefreshSession(ctx, account)
}

// UpdateAvatar replaces the avatar reference and refreshes the session
// record.
func (m *SessionManager) UpdateAvatar(ctx context.Context, accountID string, avatarURL string) (*Account, error) {
	account, err := m.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.AvatarURL = avatarURL

	return m.saveAndRefreshSession(ctx, account)
}

func (m *SessionManager) loadAccount(ctx context.Context, accountID string) (*Account, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid account id")
	}

	account, err := m.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) || errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load account")
	}
	return account, nil
}

func (m *SessionManager) saveAndRefreshSession(ctx context.Context, account *Account) (*Account, error) {
	account, err := m.accounts.Update(ctx, account)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update account")
	}

	if err := m.writeSession(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

func (m *SessionManager) establishSession(ctx context.Context, account *Account) (*TokenPair, error) {
	pair, err := m.issuer.IssuePair(account.ID.String(), account.Role)
	if err != nil {
		m.logger.Error("failed to issue token pair for %s: %s", account.ID, err)
		return nil, err
	}

	if err := m.writeSession(ctx, account); err != nil {
		return nil, err
	}

	return pair, nil
}

func (m *SessionManager) writeSession(ctx context.Context, account *Account) error {
	raw, err := account.Projection().Encode()
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to encode session record")
	}

	if err := m.sessions.Set(ctx, account.ID.String(), raw, m.cfg.GetSessionTTL()); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to write session record")
	}

	return nil
}
