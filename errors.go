package accounts

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrNameTaken signals a duplicate account name on create.
var ErrNameTaken = goerrors.New("account name is already taken", goerrors.CategoryConflict).
	WithTextCode("NAME_TAKEN").
	WithCode(http.StatusConflict)

// ErrInvalidMetadata is returned when the adapter rejects account metadata.
var ErrInvalidMetadata = goerrors.New("invalid account metadata", goerrors.CategoryValidation).
	WithTextCode("INVALID_METADATA").
	WithCode(http.StatusBadRequest)

// ErrAccountNotFound is returned for operations addressed to an unknown
// or deleted account id.
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode("ACCOUNT_NOT_FOUND").
	WithCode(http.StatusNotFound)

// ErrInvalidCredentials covers both unknown names and wrong passwords so
// callers cannot enumerate accounts.
var ErrInvalidCredentials = goerrors.New("invalid account credentials", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(http.StatusUnauthorized)

// ErrRestoreConflict signals that restoring would put two live accounts
// on the same name.
var ErrRestoreConflict = goerrors.New("account restoration is not possible, name is in use", goerrors.CategoryConflict).
	WithTextCode("RESTORE_CONFLICT").
	WithCode(http.StatusConflict)

// ErrRestoreNotSupported is returned by storage backends that cannot
// reconcile restores.
var ErrRestoreNotSupported = goerrors.New("account restoration is not supported by this storage", goerrors.CategoryOperation).
	WithTextCode("RESTORE_NOT_SUPPORTED").
	WithCode(http.StatusNotImplemented)

// ErrReservedClaimType is returned by SignIn when additional claims
// collide with the configured name or role claim type.
var ErrReservedClaimType = goerrors.New("additional claims cannot contain a reserved claim type", goerrors.CategoryValidation).
	WithTextCode("RESERVED_CLAIM_TYPE").
	WithCode(http.StatusBadRequest)

// ErrSessionNotFound is the error when the request carries no session cookie.
var ErrSessionNotFound = goerrors.New("unable to find session", goerrors.CategoryAuth).
	WithTextCode("SESSION_NOT_FOUND").
	WithCode(http.StatusUnauthorized)

// ErrSessionExpired is returned for sessions past their lifetime.
var ErrSessionExpired = goerrors.New("session is expired", goerrors.CategoryAuth).
	WithTextCode("SESSION_EXPIRED").
	WithCode(http.StatusUnauthorized)

// ErrSessionMalformed covers undecodable or tampered session payloads.
var ErrSessionMalformed = goerrors.New("unable to decode session", goerrors.CategoryAuth).
	WithTextCode("SESSION_MALFORMED").
	WithCode(http.StatusUnauthorized)

// IsConflict reports whether err carries the duplicate name or restore
// collision signal.
func IsConflict(err error) bool {
	return hasCategory(err, goerrors.CategoryConflict)
}

// IsValidation reports whether err is a caller facing validation failure.
func IsValidation(err error) bool {
	return hasCategory(err, goerrors.CategoryValidation)
}

// IsNotFound reports whether err addresses a missing or deleted account.
func IsNotFound(err error) bool {
	return hasCategory(err, goerrors.CategoryNotFound)
}

// IsUnauthorized reports failed credential verification or a missing or
// expired session.
func IsUnauthorized(err error) bool {
	return hasCategory(err, goerrors.CategoryAuth)
}

// IsUnsupported reports an operation the storage backend cannot perform.
func IsUnsupported(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == "RESTORE_NOT_SUPPORTED"
}

func hasCategory(err error, category goerrors.Category) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.Category == category
}

// isUniqueViolation classifies commit time uniqueness failures surfaced
// by the backing store. Two concurrent creates for one name race; the
// storage engine resolves it and we normalize whatever it reports.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") || // postgres
		strings.Contains(msg, "Duplicate entry") // mysql
}
