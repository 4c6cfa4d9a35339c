// Package seeder populates in-memory stores so a database-less dev process
// can serve requests.
package seeder

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credex/internal/verifier/service"
	id "credex/pkg/domain"
)

// Seeder creates the primary Verifier record.
type Seeder struct {
	verifiers service.Creator
	logger    *slog.Logger
}

func New(verifiers service.Creator, logger *slog.Logger) *Seeder {
	return &Seeder{verifiers: verifiers, logger: logger}
}

// PrimaryVerifier describes the record to seed. An empty SigningKeyFile
// generates a throwaway P-256 key.
type PrimaryVerifier struct {
	DID            id.DID
	AuthToken      string
	SigningKeyFile string
}

func (s *Seeder) SeedPrimaryVerifier(ctx context.Context, pv PrimaryVerifier) error {
	keyPEM, err := s.signingKey(pv.SigningKeyFile)
	if err != nil {
		return fmt.Errorf("failed to seed verifier: %w", err)
	}
	v, err := service.Register(ctx, s.verifiers, service.RegisterInput{
		VerifierDID:       pv.DID.String(),
		AuthToken:         pv.AuthToken,
		SigningPrivateKey: keyPEM,
	}, time.Now())
	if err != nil {
		return fmt.Errorf("failed to seed verifier: %w", err)
	}
	s.logger.InfoContext(ctx, "seeded primary verifier",
		"verifier_did", v.VerifierDID.String(),
		"verifier_id", v.ID.String(),
		"generated_key", pv.SigningKeyFile == "",
	)
	return nil
}

func (s *Seeder) signingKey(path string) (string, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read signing key: %w", err)
		}
		return string(raw), nil
	}
	return GenerateSigningKey()
}

// GenerateSigningKey returns a new P-256 private key in PKCS#8 PEM form.
func GenerateSigningKey() (string, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate signing key: %w", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", fmt.Errorf("encode signing key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), nil
}
