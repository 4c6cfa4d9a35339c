package issuance

import (
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jws"
)

// ProofType names the proof produced by Sign.
const ProofType = "JsonWebSignature2020"

// Canonicalize renders v as RFC 8785 canonical JSON.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize payload: %w", err)
	}
	return canonical, nil
}

// ParseSigningKey parses a PEM private key and checks it is an EC key.
func ParseSigningKey(privateKeyPEM string) (jwk.Key, error) {
	key, err := jwk.ParseKey([]byte(privateKeyPEM), jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	if key.KeyType() != jwa.EC() {
		return nil, fmt.Errorf("parse signing key: want EC key, got %s", key.KeyType())
	}
	return key, nil
}

// Sign returns an ES256 compact JWS over the canonical form of v.
// privateKeyPEM must hold a P-256 private key. keyID, when set, becomes the kid header.
func Sign(v any, privateKeyPEM, keyID string) (string, error) {
	payload, err := Canonicalize(v)
	if err != nil {
		return "", err
	}

	key, err := ParseSigningKey(privateKeyPEM)
	if err != nil {
		return "", err
	}
	if keyID != "" {
		if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
			return "", fmt.Errorf("set key id: %w", err)
		}
	}

	signed, err := jws.Sign(payload, jws.WithKey(jwa.ES256(), key))
	if err != nil {
		return "", fmt.Errorf("sign payload: %w", err)
	}
	return string(signed), nil
}
