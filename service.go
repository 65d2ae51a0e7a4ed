package accounts

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultAccountService orchestrates the password hasher with the
// account storage. It owns the transparent rehash policy: a password
// verified against a legacy hash is rehashed and persisted before the
// sign in is reported successful.
type DefaultAccountService struct {
	storage AccountStorage
	hasher  PasswordHasher
	logger  Logger
}

// NewAccountService returns the default AccountService.
func NewAccountService(storage AccountStorage, hasher PasswordHasher) *DefaultAccountService {
	return &DefaultAccountService{
		storage: storage,
		hasher:  hasher,
		logger:  defLogger{},
	}
}

func (s *DefaultAccountService) WithLogger(logger Logger) *DefaultAccountService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// CreateAccount hashes the password and stores the account. The name
// taken and invalid metadata signals propagate unchanged.
func (s *DefaultAccountService) CreateAccount(ctx context.Context, name, password string, metadata map[string]string) (string, error) {
	passwordHash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return "", err
	}

	return s.storage.CreateAccount(ctx, name, passwordHash, metadata)
}

// AuthenticateAccount returns the account id for valid credentials.
// Unknown names and wrong passwords both yield ErrInvalidCredentials.
func (s *DefaultAccountService) AuthenticateAccount(ctx context.Context, name, password string) (string, error) {
	account, err := s.storage.GetAccountDataByName(ctx, name)
	if err != nil {
		if IsNotFound(err) {
			return "", ErrInvalidCredentials
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account during authentication")
	}

	result, err := s.hasher.Verify(ctx, account.PasswordHash, password)
	if err != nil {
		return "", err
	}

	switch result {
	case VerificationFailed:
		return "", ErrInvalidCredentials
	case VerificationSuccess:
		return account.ID, nil
	case VerificationSuccessRehashNeeded:
		newHash, err := s.hasher.Hash(ctx, password)
		if err != nil {
			return "", err
		}

		// The rehash write is a second independent write; repeating it
		// with the same hash is harmless. If it fails the stored state
		// no longer matches what was verified, so the sign in fails
		// hard instead of returning the id optimistically.
		if err := s.storage.SetPasswordHash(ctx, account.ID, newHash); err != nil {
			s.logger.Error("failed to persist rehashed password", "account_id", account.ID, "error", err)
			return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist rehashed password")
		}

		s.logger.Debug("migrated legacy password hash", "account_id", account.ID)
		return account.ID, nil
	default:
		// A result we do not recognize means the hasher contract
		// changed under us. Masking it as a failed verification could
		// hide that indefinitely.
		return "", goerrors.New(
			fmt.Sprintf("unknown password verification result: %q", result),
			goerrors.CategoryInternal,
		).WithTextCode("UNKNOWN_VERIFICATION_RESULT")
	}
}

var _ AccountService = (*DefaultAccountService)(nil)
