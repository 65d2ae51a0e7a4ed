package accounts

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	maxMetadataKeyLength   = 64
	maxMetadataValueLength = 512
)

// accountAdapter maps the default Account model for BunAccountStorage.
type accountAdapter struct{}

// NewAccountAdapter returns the adapter for the built in Account model.
func NewAccountAdapter() AccountAdapter[*Account, *bun.SelectQuery] {
	return accountAdapter{}
}

func (accountAdapter) CreateEntity() *Account {
	return &Account{ID: uuid.New()}
}

func (accountAdapter) GetID(account *Account) string {
	if account.ID == uuid.Nil {
		return ""
	}
	return account.ID.String()
}

func (accountAdapter) GetName(account *Account) string {
	return account.Name
}

func (accountAdapter) SetName(account *Account, name string) {
	account.Name = name
}

func (accountAdapter) GetPasswordHash(account *Account) string {
	return account.PasswordHash
}

func (accountAdapter) SetPasswordHash(account *Account, passwordHash string) {
	account.PasswordHash = passwordHash
}

func (accountAdapter) GetMetadata(account *Account) map[string]string {
	return account.Metadata
}

func (accountAdapter) SetMetadata(account *Account, metadata map[string]string) error {
	for key, value := range metadata {
		if err := validation.Validate(key,
			validation.Required,
			validation.Length(1, maxMetadataKeyLength),
			is.PrintableASCII,
		); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid metadata key").
				WithTextCode("INVALID_METADATA").
				WithMetadata(map[string]any{"key": key})
		}

		if err := validation.Validate(value,
			validation.Length(0, maxMetadataValueLength),
		); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid metadata value").
				WithTextCode("INVALID_METADATA").
				WithMetadata(map[string]any{"key": key})
		}
	}

	account.Metadata = metadata
	return nil
}

func (accountAdapter) GetIsDeleted(account *Account) bool {
	return account.IsDeleted
}

func (accountAdapter) SetIsDeleted(account *Account, isDeleted bool) {
	account.IsDeleted = isDeleted
}

func (accountAdapter) FilterByNotDeleted(query *bun.SelectQuery) *bun.SelectQuery {
	return query.Where("?TableAlias.is_deleted = ?", false)
}

func (accountAdapter) FilterByID(query *bun.SelectQuery, id string) *bun.SelectQuery {
	return query.Where("?TableAlias.id = ?", id)
}

func (accountAdapter) FilterByName(query *bun.SelectQuery, name string) *bun.SelectQuery {
	return query.Where("?TableAlias.name = ?", name)
}

var _ AccountAdapter[*Account, *bun.SelectQuery] = accountAdapter{}
