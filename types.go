package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-router"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// AccountData is the read projection used during authentication. It is
// never exposed beyond the account service.
type AccountData struct {
	ID           string
	Name         string
	PasswordHash string
}

// AccountStorage persists accounts. Implementations own the uniqueness
// invariant: at most one non deleted account per name, with the backing
// store as the arbiter under concurrent creates.
type AccountStorage interface {
	// CreateAccount returns the new account id. Fails with ErrNameTaken
	// when a non deleted account already holds the name, and with an
	// invalid metadata validation error when the adapter rejects the
	// metadata.
	CreateAccount(ctx context.Context, name, passwordHash string, metadata map[string]string) (string, error)

	// GetAccountDataByName only considers non deleted accounts.
	GetAccountDataByName(ctx context.Context, name string) (*AccountData, error)

	// SetPasswordHash replaces the stored hash. Writing the same hash
	// twice is harmless; the rehash-on-verify path relies on that.
	SetPasswordHash(ctx context.Context, accountID, passwordHash string) error

	GetMetadata(ctx context.Context, accountID string) (map[string]string, error)
	SetMetadata(ctx context.Context, accountID string, metadata map[string]string) error

	// DeleteAccount soft deletes. Deleting an already deleted account is
	// a no-op; an unknown id fails with ErrAccountNotFound.
	DeleteAccount(ctx context.Context, accountID string) error

	// RestoreAccount clears the soft delete flag. Fails with
	// ErrRestoreConflict when another non deleted account now holds the
	// name, and with ErrRestoreNotSupported when the backend cannot
	// reconcile restores at all.
	RestoreAccount(ctx context.Context, accountID string) error
}

// AccountService orchestrates hashing and storage.
type AccountService interface {
	CreateAccount(ctx context.Context, name, password string, metadata map[string]string) (string, error)

	// AuthenticateAccount returns the account id for valid credentials
	// and ErrInvalidCredentials otherwise. Unknown names and wrong
	// passwords are indistinguishable to the caller.
	AuthenticateAccount(ctx context.Context, name, password string) (string, error)
}

// ClaimsFactory maps an authenticated account id to a claim set.
type ClaimsFactory interface {
	CreateAccountClaims(ctx context.Context, accountID, authenticationType string) (*AccountClaims, error)
}

// SessionProperties carry per sign-in options, the "remember me" flag
// among them.
type SessionProperties struct {
	// IssuedAt defaults to time.Now when zero.
	IssuedAt time.Time

	// Persistent sessions use the extended RememberMeTTL lifetime.
	Persistent bool

	// AuthenticationType records how the session was established.
	// Defaults to the configured scheme.
	AuthenticationType string
}

// SessionStatus is what Authenticate reads back from a live session.
type SessionStatus struct {
	Claims     map[string]string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Persistent bool
}

// SessionIssuer establishes and reads back authenticated sessions. The
// request scoped transport is an explicit parameter on every call, never
// an ambient lookup.
type SessionIssuer interface {
	SignIn(c router.Context, claims *AccountClaims, props SessionProperties) error
	Authenticate(c router.Context) (*SessionStatus, error)
	SignOut(c router.Context) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
