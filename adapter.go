package accounts

// AccountAdapter is the seam between the semantic account fields and the
// integrator's physical schema. One storage implementation serves
// arbitrary entity shapes through it: T is the integrator's entity, Q
// the storage's query representation.
//
// The adapter knows nothing about password hashing; hashes pass through
// it as opaque strings.
type AccountAdapter[T any, Q any] interface {
	// CreateEntity returns a fresh entity with its id assigned.
	CreateEntity() T

	GetID(account T) string

	GetName(account T) string
	SetName(account T, name string)

	GetPasswordHash(account T) string
	SetPasswordHash(account T, passwordHash string)

	GetMetadata(account T) map[string]string

	// SetMetadata fails with a validation error when the mapping cannot
	// be represented by the backing schema. Storage translates that into
	// the caller facing invalid metadata signal.
	SetMetadata(account T, metadata map[string]string) error

	GetIsDeleted(account T) bool
	SetIsDeleted(account T, isDeleted bool)

	FilterByNotDeleted(query Q) Q
	FilterByID(query Q, id string) Q
	FilterByName(query Q, name string) Q
}
