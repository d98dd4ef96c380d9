package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies signed bearer tokens over an asymmetric
// key pair. Signing uses the private key; verification only ever needs the
// public key, so services that just verify never hold signing material.
type TokenService struct {
	keys       *KeyPair
	method     jwt.SigningMethod
	defaultTTL time.Duration
}

// NewTokenService builds a token service for the given key pair. The
// algorithm must name an RSA signing method (e.g. RS256); anything else is a
// configuration error surfaced at startup.
func NewTokenService(keys *KeyPair, algorithm string, ttlMinutes int) (*TokenService, error) {
	if keys == nil || keys.Public == nil {
		return nil, fmt.Errorf("%w: key pair required", ErrInvalidInput)
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("%w: unknown signing algorithm %q", ErrInvalidInput, algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("%w: algorithm %q is not asymmetric", ErrInvalidInput, algorithm)
	}
	if ttlMinutes <= 0 {
		ttlMinutes = 30
	}
	return &TokenService{
		keys:       keys,
		method:     method,
		defaultTTL: time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

// DefaultTTL returns the configured token lifetime.
func (s *TokenService) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Claims is the verified token payload. The subject is stored on the wire as
// a string and reinterpreted as a numeric id on demand.
type Claims struct {
	jwt.MapClaims
}

// Subject returns the raw sub claim.
func (c *Claims) Subject() (string, bool) {
	sub, ok := c.MapClaims["sub"].(string)
	return sub, ok
}

// SubjectID returns the sub claim as an integer id when it is purely
// numeric. Non-numeric subjects (service accounts etc.) report ok=false and
// are read through Subject instead.
func (c *Claims) SubjectID() (int64, bool) {
	sub, ok := c.Subject()
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// Role returns the role claim, if the token carries one.
func (c *Claims) Role() (string, bool) {
	role, ok := c.MapClaims["role"].(string)
	return role, ok
}

// Issue signs a token for the subject. Extra claims are merged in before the
// registered claims, so callers cannot override sub or exp.
func (s *TokenService) Issue(subjectID int64, extra map[string]any, ttl time.Duration) (string, time.Time, error) {
	if s.keys.Private == nil {
		return "", time.Time{}, fmt.Errorf("%w: no signing key configured", ErrInvalidInput)
	}
	if subjectID < 0 {
		return "", time.Time{}, fmt.Errorf("%w: subject id must be non-negative", ErrInvalidInput)
	}
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("%w: ttl must be positive", ErrInvalidInput)
	}

	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = strconv.FormatInt(subjectID, 10)
	claims["exp"] = expiresAt.Unix()
	claims["iat"] = now.Unix()

	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.keys.Private)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return signed, expiresAt, nil
}

// Verify parses and cryptographically verifies a token. The header algorithm
// must match the configured one; accepting whatever the token announces
// would open the door to algorithm-confusion forgeries.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.keys.Public, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &Claims{MapClaims: claims}, nil
}
