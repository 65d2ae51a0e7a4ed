package accounts

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultScheme identifies first party credential sessions.
const DefaultScheme = "solidus"

// DefaultCookieName carries the session token.
const DefaultCookieName = "solidus_session"

// Options configure session issuance and the claim payload. They are
// validated eagerly: constructors refuse to start on a bad claim type
// configuration instead of failing on the first sign in.
type Options struct {
	// Scheme is the authentication scheme identifier.
	Scheme string

	// SigningKey signs the session token. Required.
	SigningKey string

	// SessionTTL is the absolute session lifetime.
	SessionTTL time.Duration

	// RememberMeTTL is the lifetime for persistent ("remember me")
	// sessions. Defaults to SessionTTL.
	RememberMeTTL time.Duration

	// SlidingSession extends a session when it is used past the halfway
	// point of its lifetime.
	SlidingSession bool

	// ChallengeURL is where browsers are redirected when a request
	// requires authentication.
	ChallengeURL string

	// ReturnURLParam names the query parameter carrying the original
	// URL on a challenge redirect.
	ReturnURLParam string

	// ClaimsIssuer is recorded as the issuer of the session claims.
	ClaimsIssuer string

	// NameClaimType is the claim type reserved for the account name.
	// Must be non empty and differ from RoleClaimType.
	NameClaimType string

	// RoleClaimType is the claim type reserved for the account role.
	// Must be non empty and differ from NameClaimType.
	RoleClaimType string

	// CookieName is the session cookie name.
	CookieName string
}

// DefaultOptions mirror the defaults of the original middleware: an
// eight hour session under the "solidus" scheme, name claim "sub", role
// claim "role".
func DefaultOptions() Options {
	return Options{
		Scheme:         DefaultScheme,
		SessionTTL:     8 * time.Hour,
		ReturnURLParam: "ReturnUrl",
		NameClaimType:  "sub",
		RoleClaimType:  "role",
		CookieName:     DefaultCookieName,
	}
}

// Validate enforces the configuration invariants up front. A violation
// is a deployment defect, not something to retry.
func (o Options) Validate() error {
	err := validation.ValidateStruct(&o,
		validation.Field(&o.SigningKey, validation.Required),
		validation.Field(&o.NameClaimType, validation.Required),
		validation.Field(&o.RoleClaimType, validation.Required),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid authentication options").
			WithTextCode("INVALID_OPTIONS")
	}

	if o.NameClaimType == o.RoleClaimType {
		return goerrors.New("name claim type cannot be the same as role claim type", goerrors.CategoryValidation).
			WithTextCode("INVALID_OPTIONS").
			WithMetadata(map[string]any{"claim_type": o.NameClaimType})
	}

	if o.SessionTTL <= 0 {
		return goerrors.New("session lifetime must be positive", goerrors.CategoryValidation).
			WithTextCode("INVALID_OPTIONS")
	}

	if o.RememberMeTTL < 0 {
		return goerrors.New("remember me lifetime cannot be negative", goerrors.CategoryValidation).
			WithTextCode("INVALID_OPTIONS")
	}

	return nil
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()

	if o.Scheme == "" {
		o.Scheme = def.Scheme
	}
	if o.SessionTTL == 0 {
		o.SessionTTL = def.SessionTTL
	}
	if o.RememberMeTTL == 0 {
		o.RememberMeTTL = o.SessionTTL
	}
	if o.ReturnURLParam == "" {
		o.ReturnURLParam = def.ReturnURLParam
	}
	if o.NameClaimType == "" {
		o.NameClaimType = def.NameClaimType
	}
	if o.RoleClaimType == "" {
		o.RoleClaimType = def.RoleClaimType
	}
	if o.CookieName == "" {
		o.CookieName = def.CookieName
	}

	return o
}
