package userauth_test

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-userauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountStore implements userauth.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindByEmail(ctx context.Context, email string) (*userauth.Account, error) {
	args := m.Called(ctx, email)
	var account *userauth.Account
	if v := args.Get(0); v != nil {
		account = v.(*userauth.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountStore) FindByID(ctx context.Context, id uuid.UUID) (*userauth.Account, error) {
	args := m.Called(ctx, id)
	var account *userauth.Account
	if v := args.Get(0); v != nil {
		account = v.(*userauth.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountStore) Create(ctx context.Context, account *userauth.Account, criteria ...repository.InsertCriteria) (*userauth.Account, error) {
	args := m.Called(ctx, account)
	var created *userauth.Account
	if v := args.Get(0); v != nil {
		created = v.(*userauth.Account)
	}
	return created, args.Error(1)
}

func (m *MockAccountStore) Update(ctx context.Context, account *userauth.Account, criteria ...repository.UpdateCriteria) (*userauth.Account, error) {
	args := m.Called(ctx, account)
	var updated *userauth.Account
	if v := args.Get(0); v != nil {
		updated = v.(*userauth.Account)
	}
	return updated, args.Error(1)
}

// MockMailer implements userauth.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, email userauth.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockLogger implements userauth.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}
