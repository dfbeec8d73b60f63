package shared

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued credential stays valid.
const DefaultTokenTTL = 365 * 24 * time.Hour

// TokenIssuer signs and verifies HS256 credentials with one server secret.
// It keeps no state about issued tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration

	// Now is the clock used for iat/exp; tests replace it.
	Now func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: secret, ttl: ttl, Now: time.Now}
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue signs a copy of payload with iat and exp set from the issuer clock.
func (t *TokenIssuer) Issue(payload map[string]any) (string, error) {
	if len(t.secret) == 0 {
		return "", Errorf(KindInternal, "token.issue", "signing secret not configured")
	}
	now := t.Now()
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(t.ttl).Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", Wrap(KindInternal, "token.issue", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. All failures collapse
// into a single KindUnauthorized error.
func (t *TokenIssuer) Verify(token string) (jwt.MapClaims, error) {
	if token == "" || len(t.secret) == 0 {
		return nil, Errorf(KindUnauthorized, "token.verify", UnauthorizedMessage)
	}
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.Now),
	)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Op: "token.verify", Message: UnauthorizedMessage, Err: err}
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, &Error{Kind: KindUnauthorized, Op: "token.verify", Message: UnauthorizedMessage, Err: errors.New("invalid claims")}
	}
	return claims, nil
}
