package accounts_test

import (
	"context"
	"testing"

	accounts "github.com/solidus/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	ctx := context.Background()
	hasher := accounts.NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash(ctx, "correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "correct horse battery staple")

	result, err := hasher.Verify(ctx, hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, accounts.VerificationSuccess, result)
}

func TestBcryptHasherWrongPassword(t *testing.T) {
	ctx := context.Background()
	hasher := accounts.NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash(ctx, "password1")
	require.NoError(t, err)

	result, err := hasher.Verify(ctx, hash, "password2")
	require.NoError(t, err)
	assert.Equal(t, accounts.VerificationFailed, result)
}

func TestBcryptHasherMalformedHashFailsVerification(t *testing.T) {
	ctx := context.Background()
	hasher := accounts.NewBcryptHasher(bcrypt.MinCost)

	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$garbage"} {
		result, err := hasher.Verify(ctx, hash, "password1")
		require.NoError(t, err)
		assert.Equal(t, accounts.VerificationFailed, result, "hash %q", hash)
	}
}

func TestBcryptHasherRehashNeededForWeakerCost(t *testing.T) {
	ctx := context.Background()

	legacy := accounts.NewBcryptHasher(bcrypt.MinCost)
	hash, err := legacy.Hash(ctx, "password1")
	require.NoError(t, err)

	current := accounts.NewBcryptHasher(bcrypt.MinCost + 1)
	result, err := current.Verify(ctx, hash, "password1")
	require.NoError(t, err)
	assert.Equal(t, accounts.VerificationSuccessRehashNeeded, result)

	// Same cost verifies clean, no churn on every sign in.
	result, err = legacy.Verify(ctx, hash, "password1")
	require.NoError(t, err)
	assert.Equal(t, accounts.VerificationSuccess, result)
}

func TestBcryptHasherCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hasher := accounts.NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash(ctx, "password1")
	require.Error(t, err)

	result, err := hasher.Verify(ctx, "whatever", "password1")
	require.Error(t, err)
	assert.Equal(t, accounts.VerificationFailed, result)
}

func TestVerificationResultString(t *testing.T) {
	assert.Equal(t, "failed", accounts.VerificationFailed.String())
	assert.Equal(t, "success", accounts.VerificationSuccess.String())
	assert.Equal(t, "success_rehash_needed", accounts.VerificationSuccessRehashNeeded.String())
	assert.Equal(t, "unknown", accounts.VerificationResult(42).String())
}
