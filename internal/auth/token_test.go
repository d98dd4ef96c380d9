package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPair(t *testing.T) *KeyPair {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &KeyPair{Private: key, Public: &key.PublicKey}
}

func testTokenService(t *testing.T, keys *KeyPair) *TokenService {
	t.Helper()
	svc, err := NewTokenService(keys, "RS256", 30)
	require.NoError(t, err)
	return svc
}

func signedToken(t *testing.T, keys *KeyPair, claims map[string]any) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims(claims))
	signed, err := token.SignedString(keys.Private)
	require.NoError(t, err)
	return signed
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := testTokenService(t, testKeyPair(t))

	token, expiresAt, err := svc.Issue(42, map[string]any{"role": "customer"}, 30*time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	sub, ok := claims.SubjectID()
	require.True(t, ok)
	assert.Equal(t, int64(42), sub)

	role, ok := claims.Role()
	require.True(t, ok)
	assert.Equal(t, "customer", role)
}

func TestTokenServiceRejectsBadInput(t *testing.T) {
	svc := testTokenService(t, testKeyPair(t))

	_, _, err := svc.Issue(-1, nil, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.Issue(1, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.Issue(1, nil, -time.Minute)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTokenServiceExtraClaimsCannotOverrideSubject(t *testing.T) {
	svc := testTokenService(t, testKeyPair(t))

	token, _, err := svc.Issue(7, map[string]any{"sub": "999", "exp": int64(1)}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	sub, ok := claims.SubjectID()
	require.True(t, ok)
	assert.Equal(t, int64(7), sub)
}

func TestTokenServiceExpiredToken(t *testing.T) {
	keys := testKeyPair(t)
	svc := testTokenService(t, keys)

	expired := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(-31 * time.Minute).Unix(),
		"iat": time.Now().Add(-time.Hour).Unix(),
	})
	tokenStr, err := expired.SignedString(keys.Private)
	require.NoError(t, err)

	_, err = svc.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenServiceWrongKey(t *testing.T) {
	issuer := testTokenService(t, testKeyPair(t))
	verifier := testTokenService(t, testKeyPair(t))

	token, _, err := issuer.Issue(42, nil, time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceRejectsAlgorithmConfusion(t *testing.T) {
	keys := testKeyPair(t)
	svc := testTokenService(t, keys)

	// A token announcing HS256 must be rejected outright, even with a valid
	// claim set, so the public key can never be abused as an HMAC secret.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenStr, err := forged.SignedString([]byte("attacker-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceMalformedToken(t *testing.T) {
	svc := testTokenService(t, testKeyPair(t))

	for _, garbage := range []string{"", "garbage", "a.b.c", "a.b"} {
		_, err := svc.Verify(garbage)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", garbage)
	}
}

func TestTokenServiceNonNumericSubjectPassesThrough(t *testing.T) {
	keys := testKeyPair(t)
	svc := testTokenService(t, keys)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "service-account",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenStr, err := token.SignedString(keys.Private)
	require.NoError(t, err)

	claims, err := svc.Verify(tokenStr)
	require.NoError(t, err)

	sub, ok := claims.Subject()
	require.True(t, ok)
	assert.Equal(t, "service-account", sub)

	_, numeric := claims.SubjectID()
	assert.False(t, numeric)
}

func TestNewTokenServiceRejectsSymmetricAlgorithm(t *testing.T) {
	_, err := NewTokenService(testKeyPair(t), "HS256", 30)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewTokenService(testKeyPair(t), "NOPE", 30)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
