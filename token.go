package accounts

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// Internal bookkeeping claims. They are set after the additional claims
// are merged so a caller supplied claim can never override them.
const (
	claimIssuedAt   = "iat"
	claimExpiresAt  = "exp"
	claimIssuer     = "iss"
	claimAuthType   = "auth_type"
	claimPersistent = "persistent"
)

// sessionToken signs and validates the cookie payload. The JWT here is a
// serialization detail of the session transport, not an external token
// surface.
type sessionToken struct {
	opts   Options
	logger Logger
}

func (t sessionToken) sign(claims *AccountClaims, props SessionProperties, ttl time.Duration) (string, error) {
	issuedAt := props.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	authType := props.AuthenticationType
	if authType == "" {
		authType = t.opts.Scheme
	}

	payload := jwt.MapClaims{}
	for _, claim := range claims.AdditionalClaims {
		payload[claim.Type] = claim.Value
	}

	payload[t.opts.NameClaimType] = claims.Name
	payload[t.opts.RoleClaimType] = claims.Role
	payload[claimIssuedAt] = jwt.NewNumericDate(issuedAt)
	payload[claimExpiresAt] = jwt.NewNumericDate(issuedAt.Add(ttl))
	payload[claimAuthType] = authType
	payload[claimPersistent] = props.Persistent
	if t.opts.ClaimsIssuer != "" {
		payload[claimIssuer] = t.opts.ClaimsIssuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	signed, err := token.SignedString([]byte(t.opts.SigningKey))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign session token")
	}

	return signed, nil
}

func (t sessionToken) validate(raw string) (jwt.MapClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if t.opts.ClaimsIssuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(t.opts.ClaimsIssuer))
	}

	token, err := jwt.ParseWithClaims(raw, jwt.MapClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			t.logger.Error("session token has unexpected signing method", "alg", tok.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return []byte(t.opts.SigningKey), nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrSessionMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		t.logger.Error("session token claims could not be decoded")
		return nil, ErrSessionMalformed
	}

	return claims, nil
}

// statusFromClaims flattens the payload into the caller facing claim
// map. Timestamps and the persistence flag move to typed fields instead
// of being echoed as opaque numbers.
func statusFromClaims(claims jwt.MapClaims) *SessionStatus {
	status := &SessionStatus{
		Claims: make(map[string]string, len(claims)),
	}

	for claimType, value := range claims {
		switch claimType {
		case claimIssuedAt:
			if ts, ok := numericClaim(value); ok {
				status.IssuedAt = ts
			}
		case claimExpiresAt:
			if ts, ok := numericClaim(value); ok {
				status.ExpiresAt = ts
			}
		case claimPersistent:
			if persistent, ok := value.(bool); ok {
				status.Persistent = persistent
			}
		default:
			status.Claims[claimType] = fmt.Sprintf("%v", value)
		}
	}

	return status
}

func numericClaim(value any) (time.Time, bool) {
	switch v := value.(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case *jwt.NumericDate:
		return v.Time, true
	default:
		return time.Time{}, false
	}
}
