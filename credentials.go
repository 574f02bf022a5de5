package userauth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// CredentialVerifier validates email/password pairs against the persistent
// account boundary. It is read-only: failed attempts are not tracked and
// nothing is written.
type CredentialVerifier struct {
	store  AccountStore
	logger Logger
}

// NewCredentialVerifier will create a new CredentialVerifier
func NewCredentialVerifier(store AccountStore) *CredentialVerifier {
	return &CredentialVerifier{
		store:  store,
		logger: defLogger{},
	}
}

func (v *CredentialVerifier) WithLogger(logger Logger) *CredentialVerifier {
	if logger != nil {
		v.logger = logger
	}
	return v
}

// Verify looks the account up by email and compares the password against the
// stored bcrypt hash. Unknown email, a social-only account without a hash,
// and a mismatched password all collapse to ErrInvalidCredentials.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*Account, error) {
	account, err := v.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) || errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during verification")
	}

	if !account.HasPassword() {
		// social-auth origin, no credential login
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}
