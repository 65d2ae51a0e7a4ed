package accounts

import (
	"net/http"
	"net/url"
	"time"

	"github.com/goliatone/go-router"
)

// CookieSessionIssuer establishes sessions as a signed HTTP only cookie
// on the request context handed in by the caller. There is no ambient
// context lookup: a handler without a request context cannot reach this
// API at all, which removes the unresolved-context failure mode of the
// original middleware.
type CookieSessionIssuer struct {
	opts   Options
	token  sessionToken
	logger Logger
}

// NewSessionIssuer validates the options eagerly and returns the cookie
// based SessionIssuer.
func NewSessionIssuer(opts Options) (*CookieSessionIssuer, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := defLogger{}
	return &CookieSessionIssuer{
		opts:   opts,
		token:  sessionToken{opts: opts, logger: logger},
		logger: logger,
	}, nil
}

func (s *CookieSessionIssuer) WithLogger(logger Logger) *CookieSessionIssuer {
	if logger != nil {
		s.logger = logger
		s.token.logger = logger
	}
	return s
}

// Options returns the validated, defaulted configuration in effect.
func (s *CookieSessionIssuer) Options() Options {
	return s.opts
}

// SignIn merges the reserved name and role claims with the additional
// claims and sets the session cookie. Additional claims shadowing a
// reserved claim type are a caller programming error and fail the sign
// in before any cookie is written.
func (s *CookieSessionIssuer) SignIn(c router.Context, claims *AccountClaims, props SessionProperties) error {
	if claims == nil {
		return ErrSessionMalformed
	}

	for _, claim := range claims.AdditionalClaims {
		if claim.Type == s.opts.NameClaimType || claim.Type == s.opts.RoleClaimType {
			s.logger.Error("sign in rejected, additional claim shadows reserved type", "claim_type", claim.Type)
			return ErrReservedClaimType
		}
	}

	ttl := s.opts.SessionTTL
	if props.Persistent {
		ttl = s.opts.RememberMeTTL
	}

	signed, err := s.token.sign(claims, props, ttl)
	if err != nil {
		return err
	}

	s.setSessionCookie(c, signed, ttl)
	return nil
}

// Authenticate reads back the current session. With sliding sessions
// enabled a session used past the halfway point of its lifetime gets a
// fresh cookie for a full window.
func (s *CookieSessionIssuer) Authenticate(c router.Context) (*SessionStatus, error) {
	raw := c.Cookies(s.opts.CookieName)
	if raw == "" {
		return nil, ErrSessionNotFound
	}

	claims, err := s.token.validate(raw)
	if err != nil {
		return nil, err
	}

	status := statusFromClaims(claims)

	if s.opts.SlidingSession && s.pastHalfway(status) {
		if err := s.extendSession(c, status); err != nil {
			// Renewal is opportunistic; the current session is still valid.
			s.logger.Warn("failed to extend sliding session", "error", err)
		}
	}

	return status, nil
}

// SignOut terminates the active session. Without one it reports
// unauthorized, so signing out twice in a row is safe and the second
// call is indistinguishable from never having signed in.
func (s *CookieSessionIssuer) SignOut(c router.Context) error {
	if _, err := s.Authenticate(c); err != nil {
		return err
	}

	s.clearSessionCookie(c)
	return nil
}

// RequireSession guards a route. Browsers hitting it unauthenticated are
// redirected to the challenge URL with the original URL preserved in the
// configured return parameter; everything else gets the error.
func (s *CookieSessionIssuer) RequireSession() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			status, err := s.Authenticate(c)
			if err != nil {
				if s.opts.ChallengeURL != "" && c.Method() == string(router.GET) {
					target := s.challengeTarget(c.OriginalURL())
					return c.Redirect(target, http.StatusFound)
				}
				return err
			}

			c.SetContext(WithSessionContext(c.Context(), status))
			return next(c)
		}
	}
}

func (s *CookieSessionIssuer) challengeTarget(originalURL string) string {
	target := s.opts.ChallengeURL
	if s.opts.ReturnURLParam != "" && originalURL != "" {
		target += "?" + s.opts.ReturnURLParam + "=" + url.QueryEscape(originalURL)
	}
	return target
}

func (s *CookieSessionIssuer) pastHalfway(status *SessionStatus) bool {
	if status.IssuedAt.IsZero() || status.ExpiresAt.IsZero() {
		return false
	}

	window := status.ExpiresAt.Sub(status.IssuedAt)
	if window <= 0 {
		return false
	}

	return time.Now().After(status.IssuedAt.Add(window / 2))
}

func (s *CookieSessionIssuer) extendSession(c router.Context, status *SessionStatus) error {
	claims := &AccountClaims{
		Name: status.Claims[s.opts.NameClaimType],
		Role: status.Claims[s.opts.RoleClaimType],
	}

	for claimType, value := range status.Claims {
		switch claimType {
		case s.opts.NameClaimType, s.opts.RoleClaimType, claimIssuer:
			continue
		case claimAuthType:
			continue
		default:
			claims.AdditionalClaims = append(claims.AdditionalClaims, Claim{Type: claimType, Value: value})
		}
	}

	props := SessionProperties{
		Persistent:         status.Persistent,
		AuthenticationType: status.Claims[claimAuthType],
	}

	ttl := status.ExpiresAt.Sub(status.IssuedAt)
	signed, err := s.token.sign(claims, props, ttl)
	if err != nil {
		return err
	}

	s.setSessionCookie(c, signed, ttl)

	status.IssuedAt = time.Now()
	status.ExpiresAt = status.IssuedAt.Add(ttl)
	return nil
}

func (s *CookieSessionIssuer) setSessionCookie(c router.Context, value string, ttl time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (s *CookieSessionIssuer) clearSessionCookie(c router.Context) {
	c.Cookie(&router.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

var _ SessionIssuer = (*CookieSessionIssuer)(nil)
