package accounts

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// BunAccountStorage implements AccountStorage on top of a bun database,
// mapping entities through an AccountAdapter. The adapter decides the
// schema; this type only sequences queries and normalizes backend
// failures into the domain error kinds.
type BunAccountStorage[T any] struct {
	db      *bun.DB
	adapter AccountAdapter[T, *bun.SelectQuery]
	logger  Logger
}

// NewBunAccountStorage returns an AccountStorage for the given adapter.
func NewBunAccountStorage[T any](db *bun.DB, adapter AccountAdapter[T, *bun.SelectQuery]) *BunAccountStorage[T] {
	return &BunAccountStorage[T]{
		db:      db,
		adapter: adapter,
		logger:  defLogger{},
	}
}

func (s *BunAccountStorage[T]) WithLogger(logger Logger) *BunAccountStorage[T] {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// CreateAccount inserts a single row and lets the store's unique index
// arbitrate concurrent creates for one name. A failed insert leaves no
// partial record behind.
func (s *BunAccountStorage[T]) CreateAccount(ctx context.Context, name, passwordHash string, metadata map[string]string) (string, error) {
	account := s.adapter.CreateEntity()
	s.adapter.SetName(account, name)
	s.adapter.SetPasswordHash(account, passwordHash)

	if err := s.adapter.SetMetadata(account, metadata); err != nil {
		if IsValidation(err) {
			return "", err
		}
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "invalid account metadata").
			WithTextCode("INVALID_METADATA")
	}

	if _, err := s.db.NewInsert().Model(account).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return "", ErrNameTaken
		}
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create account")
	}

	return s.adapter.GetID(account), nil
}

func (s *BunAccountStorage[T]) GetAccountDataByName(ctx context.Context, name string) (*AccountData, error) {
	account := s.adapter.CreateEntity()

	query := s.db.NewSelect().Model(account)
	query = s.adapter.FilterByName(s.adapter.FilterByNotDeleted(query), name)

	if err := query.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to look up account by name")
	}

	return &AccountData{
		ID:           s.adapter.GetID(account),
		Name:         s.adapter.GetName(account),
		PasswordHash: s.adapter.GetPasswordHash(account),
	}, nil
}

func (s *BunAccountStorage[T]) SetPasswordHash(ctx context.Context, accountID, passwordHash string) error {
	account, err := s.getRequiredAccount(ctx, accountID, false)
	if err != nil {
		return err
	}

	s.adapter.SetPasswordHash(account, passwordHash)
	return s.persist(ctx, account, "failed to persist password hash")
}

func (s *BunAccountStorage[T]) GetMetadata(ctx context.Context, accountID string) (map[string]string, error) {
	account, err := s.getRequiredAccount(ctx, accountID, false)
	if err != nil {
		return nil, err
	}

	return s.adapter.GetMetadata(account), nil
}

func (s *BunAccountStorage[T]) SetMetadata(ctx context.Context, accountID string, metadata map[string]string) error {
	account, err := s.getRequiredAccount(ctx, accountID, false)
	if err != nil {
		return err
	}

	if err := s.adapter.SetMetadata(account, metadata); err != nil {
		if IsValidation(err) {
			return err
		}
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid account metadata").
			WithTextCode("INVALID_METADATA")
	}

	return s.persist(ctx, account, "failed to persist metadata")
}

// DeleteAccount is idempotent: deleting a deleted account succeeds
// without touching the row again.
func (s *BunAccountStorage[T]) DeleteAccount(ctx context.Context, accountID string) error {
	account, err := s.getRequiredAccount(ctx, accountID, true)
	if err != nil {
		return err
	}

	if s.adapter.GetIsDeleted(account) {
		return nil
	}

	s.adapter.SetIsDeleted(account, true)
	return s.persist(ctx, account, "failed to soft delete account")
}

// RestoreAccount re-checks the live name uniqueness invariant before
// clearing the flag; the unique index backstops the race between two
// concurrent restores.
func (s *BunAccountStorage[T]) RestoreAccount(ctx context.Context, accountID string) error {
	account, err := s.getRequiredAccount(ctx, accountID, true)
	if err != nil {
		return err
	}

	if !s.adapter.GetIsDeleted(account) {
		return nil
	}

	name := s.adapter.GetName(account)
	probe := s.adapter.CreateEntity()
	liveQuery := s.adapter.FilterByName(s.adapter.FilterByNotDeleted(s.db.NewSelect().Model(probe)), name)

	count, err := liveQuery.Count(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to check name availability for restore")
	}
	if count > 0 {
		return ErrRestoreConflict
	}

	s.adapter.SetIsDeleted(account, false)
	if err := s.persist(ctx, account, "failed to restore account"); err != nil {
		if isUniqueViolation(err) {
			return ErrRestoreConflict
		}
		return err
	}

	return nil
}

// GetAccount exposes the adapter typed entity to the host application
// layer. Deleted accounts are not found.
func (s *BunAccountStorage[T]) GetAccount(ctx context.Context, accountID string) (T, error) {
	return s.getRequiredAccount(ctx, accountID, false)
}

func (s *BunAccountStorage[T]) getRequiredAccount(ctx context.Context, accountID string, includeDeleted bool) (T, error) {
	account := s.adapter.CreateEntity()

	query := s.db.NewSelect().Model(account)
	if !includeDeleted {
		query = s.adapter.FilterByNotDeleted(query)
	}
	query = s.adapter.FilterByID(query, accountID)

	if err := query.Limit(1).Scan(ctx); err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrAccountNotFound
		}
		return zero, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to look up account by id")
	}

	return account, nil
}

func (s *BunAccountStorage[T]) persist(ctx context.Context, account T, msg string) error {
	if _, err := s.db.NewUpdate().Model(account).WherePK().Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return err
		}
		return goerrors.Wrap(err, goerrors.CategoryOperation, msg)
	}
	return nil
}

var _ AccountStorage = (*BunAccountStorage[*Account])(nil)
