package userauth_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-userauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterAccountHandlerExecute(t *testing.T) {
	manager := &MockManager{}
	manager.On("Register", mock.Anything, userauth.PendingRegistration{
		Name:     "Test Person",
		Email:    "person@example.com",
		Password: "super-secret",
	}).Return("activation-token", nil)

	var response *userauth.RegisterAccountResponse
	handler := userauth.NewRegisterAccountHandler(manager)

	err := handler.Execute(context.Background(), userauth.RegisterAccountMessage{
		Name:     "Test Person",
		Email:    "person@example.com",
		Password: "super-secret",
		OnResponse: func(r *userauth.RegisterAccountResponse) {
			response = r
		},
	})

	require.NoError(t, err)
	require.NotNil(t, response)
	assert.Equal(t, "activation-token", response.ActivationToken)
	manager.AssertExpectations(t)
}

func TestRegisterAccountHandlerCancelledContext(t *testing.T) {
	manager := &MockManager{}
	handler := userauth.NewRegisterAccountHandler(manager)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, userauth.RegisterAccountMessage{
		Email: "person@example.com",
	})

	require.Error(t, err)
	manager.AssertNotCalled(t, "Register")
}

func TestRegisterAccountHandlerPassesRichErrorsThrough(t *testing.T) {
	manager := &MockManager{}
	manager.On("Register", mock.Anything, mock.Anything).
		Return("", userauth.ErrEmailAlreadyExists)

	responded := false
	handler := userauth.NewRegisterAccountHandler(manager)

	err := handler.Execute(context.Background(), userauth.RegisterAccountMessage{
		Name:     "Test Person",
		Email:    "person@example.com",
		Password: "super-secret",
		OnResponse: func(r *userauth.RegisterAccountResponse) {
			responded = true
		},
	})

	require.ErrorIs(t, err, userauth.ErrEmailAlreadyExists)
	assert.False(t, responded)
}

func TestActivateAccountHandlerExecute(t *testing.T) {
	persisted := &userauth.Account{
		ID:       uuid.New(),
		Email:    "person@example.com",
		Role:     userauth.RoleUser,
		Verified: true,
	}

	manager := &MockManager{}
	manager.On("Activate", mock.Anything, "activation-token", "1234").
		Return(persisted, nil)

	var account *userauth.Account
	handler := userauth.NewActivateAccountHandler(manager)

	err := handler.Execute(context.Background(), userauth.ActivateAccountMessage{
		ActivationToken: "activation-token",
		ActivationCode:  "1234",
		OnResponse: func(a *userauth.Account) {
			account = a
		},
	})

	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, persisted.ID, account.ID)
	manager.AssertExpectations(t)
}

func TestActivateAccountHandlerCancelledContext(t *testing.T) {
	manager := &MockManager{}
	handler := userauth.NewActivateAccountHandler(manager)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, userauth.ActivateAccountMessage{
		ActivationToken: "activation-token",
		ActivationCode:  "1234",
	})

	require.Error(t, err)
	manager.AssertNotCalled(t, "Activate")
}

func TestActivateAccountHandlerPassesRichErrorsThrough(t *testing.T) {
	manager := &MockManager{}
	manager.On("Activate", mock.Anything, "activation-token", "9999").
		Return(nil, userauth.ErrCodeMismatch)

	responded := false
	handler := userauth.NewActivateAccountHandler(manager)

	err := handler.Execute(context.Background(), userauth.ActivateAccountMessage{
		ActivationToken: "activation-token",
		ActivationCode:  "9999",
		OnResponse: func(a *userauth.Account) {
			responded = true
		},
	})

	require.ErrorIs(t, err, userauth.ErrCodeMismatch)
	assert.False(t, responded)
}
