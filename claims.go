package accounts

import "context"

// DefaultAccountRole is the role granted by the default claims factory.
const DefaultAccountRole = "account"

// CredentialsAuthType marks sessions established by name/password.
const CredentialsAuthType = "credentials"

// Claim is a typed fact attached to an authenticated session.
type Claim struct {
	Type   string
	Value  string
	Issuer string
}

// AccountClaims is the claim set built per sign in. AdditionalClaims
// must not contain the configured name or role claim type; SignIn
// rejects the set if they do.
type AccountClaims struct {
	Name             string
	Role             string
	AdditionalClaims []Claim
}

// ClaimsFactoryFunc adapts a function into a ClaimsFactory.
type ClaimsFactoryFunc func(ctx context.Context, accountID, authenticationType string) (*AccountClaims, error)

func (f ClaimsFactoryFunc) CreateAccountClaims(ctx context.Context, accountID, authenticationType string) (*AccountClaims, error) {
	return f(ctx, accountID, authenticationType)
}

type defaultClaimsFactory struct{}

// NewClaimsFactory returns the default factory: the account id becomes
// the name claim and every account gets the fixed default role. Hosts
// with richer role models supply their own factory.
func NewClaimsFactory() ClaimsFactory {
	return defaultClaimsFactory{}
}

func (defaultClaimsFactory) CreateAccountClaims(ctx context.Context, accountID, authenticationType string) (*AccountClaims, error) {
	return &AccountClaims{
		Name:             accountID,
		Role:             DefaultAccountRole,
		AdditionalClaims: nil,
	}, nil
}

var _ ClaimsFactory = defaultClaimsFactory{}
var _ ClaimsFactory = ClaimsFactoryFunc(nil)
