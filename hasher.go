package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// VerificationResult is the three way outcome of a password check.
type VerificationResult int

const (
	// VerificationFailed means the password did not match, or the stored
	// hash could not be interpreted. The two are deliberately
	// indistinguishable.
	VerificationFailed VerificationResult = iota

	// VerificationSuccess means the password matched a current hash.
	VerificationSuccess

	// VerificationSuccessRehashNeeded means the password matched but the
	// hash was produced under weaker parameters. Callers must rehash and
	// persist the new hash before reporting success.
	VerificationSuccessRehashNeeded
)

func (r VerificationResult) String() string {
	switch r {
	case VerificationFailed:
		return "failed"
	case VerificationSuccess:
		return "success"
	case VerificationSuccessRehashNeeded:
		return "success_rehash_needed"
	default:
		return "unknown"
	}
}

// PasswordHasher produces and verifies password hashes. Only the hasher
// may interpret the internal structure of a hash.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)

	// Verify never returns structural detail about the stored hash; a
	// corrupted hash verifies as VerificationFailed. The error return is
	// reserved for context cancellation.
	Verify(ctx context.Context, hash, password string) (VerificationResult, error)
}

// DefaultHashCost is the bcrypt cost new hashes are produced with.
const DefaultHashCost = 14

// BcryptHasher is the default PasswordHasher. Hashes recorded with a
// cost below the configured one verify as rehash needed, which migrates
// them transparently on the next successful sign in.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher producing hashes at the given cost.
// Costs outside the bcrypt range are clamped.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	select {
	case <-ctx.Done():
		return "", goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during password hashing")
	default:
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	return string(hash), nil
}

func (h *BcryptHasher) Verify(ctx context.Context, hash, password string) (VerificationResult, error) {
	select {
	case <-ctx.Done():
		return VerificationFailed, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during password verification")
	default:
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		// Mismatches and malformed hashes collapse to the same outcome.
		return VerificationFailed, nil
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err == nil && cost < h.cost {
		return VerificationSuccessRehashNeeded, nil
	}

	return VerificationSuccess, nil
}

var _ PasswordHasher = (*BcryptHasher)(nil)
