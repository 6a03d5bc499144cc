package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator adds credentials to an outgoing request. The adapter calls
// it on every attempt, after the default and request headers are set.
type Authenticator interface {
	Authenticate(req *http.Request) error
}

// AuthFunc adapts a function to Authenticator.
type AuthFunc func(req *http.Request) error

func (f AuthFunc) Authenticate(req *http.Request) error { return f(req) }

// HeaderAPIKey is the header APIKeyAuth uses.
const HeaderAPIKey = "X-API-Key"

// BearerAuth sends a static bearer token.
func BearerAuth(token string) Authenticator {
	return AuthFunc(func(req *http.Request) error {
		req.Header.Set(HeaderAuth, "Bearer "+token)
		return nil
	})
}

// BasicAuth sends HTTP basic credentials.
func BasicAuth(username, password string) Authenticator {
	return AuthFunc(func(req *http.Request) error {
		req.SetBasicAuth(username, password)
		return nil
	})
}

// APIKeyAuth sends key in the X-API-Key header.
func APIKeyAuth(key string) Authenticator {
	return APIKeyHeader(HeaderAPIKey, key)
}

// APIKeyHeader sends key in the named header.
func APIKeyHeader(header, key string) Authenticator {
	return AuthFunc(func(req *http.Request) error {
		req.Header.Set(header, key)
		return nil
	})
}

// APIKeyQuery sends key as the named query parameter.
func APIKeyQuery(param, key string) Authenticator {
	return AuthFunc(func(req *http.Request) error {
		q := req.URL.Query()
		q.Set(param, key)
		req.URL.RawQuery = q.Encode()
		return nil
	})
}

const defaultJWTTTL = 5 * time.Minute

// JWTConfig describes the HS256 tokens JWTAuth mints.
type JWTConfig struct {
	SigningKey []byte
	Issuer     string
	Subject    string
	Audience   []string
	// TTL defaults to five minutes.
	TTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// JWTAuth signs a fresh bearer token for every request.
func JWTAuth(cfg JWTConfig) Authenticator {
	return AuthFunc(func(req *http.Request) error {
		token, err := cfg.Token()
		if err != nil {
			return err
		}
		req.Header.Set(HeaderAuth, "Bearer "+token)
		return nil
	})
}

// Token mints one signed token.
func (c JWTConfig) Token() (string, error) {
	if len(c.SigningKey) == 0 {
		return "", errors.New("httpclient: jwt signing key is required")
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = defaultJWTTTL
	}

	iat := now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.Issuer,
		Subject:   c.Subject,
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(iat.Add(ttl)),
	}
	if len(c.Audience) > 0 {
		claims.Audience = c.Audience
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.SigningKey)
	if err != nil {
		return "", fmt.Errorf("httpclient: sign jwt: %w", err)
	}
	return token, nil
}
