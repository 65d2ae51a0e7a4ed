package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// CreateAccountMessage is the command message for account sign up, for
// hosts that dispatch writes through a command bus.
type CreateAccountMessage struct {
	Name     string            `json:"name"`
	Password string            `json:"password"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (m CreateAccountMessage) Type() string { return "account.create" }

// CreateAccountHandler executes CreateAccountMessage against the
// account service.
type CreateAccountHandler struct {
	service AccountService
}

func NewCreateAccountHandler(service AccountService) *CreateAccountHandler {
	return &CreateAccountHandler{service: service}
}

func (h *CreateAccountHandler) Execute(ctx context.Context, msg CreateAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account creation",
		)
	default:
		return h.execute(ctx, msg)
	}
}

func (h *CreateAccountHandler) execute(ctx context.Context, msg CreateAccountMessage) error {
	if _, err := h.service.CreateAccount(ctx, msg.Name, msg.Password, msg.Metadata); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create account")
	}

	return nil
}
