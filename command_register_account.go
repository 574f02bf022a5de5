package userauth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// RegisterAccountMessage starts the activation flow for a new account.
type RegisterAccountMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// OnResponse receives the activation token on success.
	OnResponse func(response *RegisterAccountResponse)
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

type RegisterAccountResponse struct {
	ActivationToken string `json:"activation_token"`
}

type RegisterAccountHandler struct {
	manager Manager
}

func NewRegisterAccountHandler(manager Manager) *RegisterAccountHandler {
	return &RegisterAccountHandler{manager: manager}
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) error {
	token, err := h.manager.Register(ctx, PendingRegistration{
		Name:     event.Name,
		Email:    event.Email,
		Password: event.Password,
	})
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account registration failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(&RegisterAccountResponse{
			ActivationToken: token,
		})
	}

	return nil
}
