package auth

import (
	"crypto/rsa"
	"fmt"
	"os"

	jwt "github.com/golang-jwt/jwt/v5"
)

// KeyPair holds the RSA key material used to sign and verify tokens. It is
// loaded once at startup and read-only afterwards, so it is safe to share
// across requests without locking. Verifier-only deployments may leave
// Private nil.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// LoadKeyPair reads PEM-encoded RSA keys from the given files. Startup must
// abort when this fails; there is no fallback key material.
func LoadKeyPair(privateKeyFile, publicKeyFile string) (*KeyPair, error) {
	privPEM, err := os.ReadFile(privateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("read private key %s: %w", privateKeyFile, err)
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key %s: %w", privateKeyFile, err)
	}

	pubPEM, err := os.ReadFile(publicKeyFile)
	if err != nil {
		return nil, fmt.Errorf("read public key %s: %w", publicKeyFile, err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key %s: %w", publicKeyFile, err)
	}

	return &KeyPair{Private: priv, Public: pub}, nil
}
