package userauth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// ActivateAccountMessage consumes an activation token and its mailed code.
type ActivateAccountMessage struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`

	// OnResponse receives the persisted account on success.
	OnResponse func(account *Account)
}

func (e ActivateAccountMessage) Type() string { return "account.activate" }

type ActivateAccountHandler struct {
	manager Manager
}

func NewActivateAccountHandler(manager Manager) *ActivateAccountHandler {
	return &ActivateAccountHandler{manager: manager}
}

func (h *ActivateAccountHandler) Execute(ctx context.Context, event ActivateAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account activation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ActivateAccountHandler) execute(ctx context.Context, event ActivateAccountMessage) error {
	account, err := h.manager.Activate(ctx, event.ActivationToken, event.ActivationCode)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account activation failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(account)
	}

	return nil
}
