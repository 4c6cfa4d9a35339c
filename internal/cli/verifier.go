package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"credex/internal/platform/database"
	"credex/internal/verifier/service"
	"credex/internal/verifier/store"
)

var verifierCmd = &cobra.Command{
	Use:   "verifier",
	Short: "Manage Verifier records",
}

var verifierRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a Verifier with its initial auth token and signing key",
	Long: `Register stores a new Verifier. The DID must be unique.

Example:
  credex verifier register --did did:key:z6MkVerifier --auth-token "$TOKEN" --signing-key ./keys/verifier.pem`,
	RunE: runVerifierRegister,
}

var (
	registerDID        string
	registerAuthToken  string
	registerSigningKey string
)

func init() {
	verifierCmd.AddCommand(verifierRegisterCmd)

	verifierRegisterCmd.Flags().StringVar(&registerDID, "did", "", "Verifier DID")
	verifierRegisterCmd.Flags().StringVar(&registerAuthToken, "auth-token", "", "Initial issuance auth token")
	verifierRegisterCmd.Flags().StringVar(&registerSigningKey, "signing-key", "", "Path to the PEM encoded EC private key")
	_ = verifierRegisterCmd.MarkFlagRequired("did")
	_ = verifierRegisterCmd.MarkFlagRequired("signing-key")
}

func runVerifierRegister(cmd *cobra.Command, _ []string) error {
	keyPEM, err := os.ReadFile(registerSigningKey)
	if err != nil {
		return fmt.Errorf("read signing key: %w", err)
	}
	token := registerAuthToken
	if token == "" {
		token = os.Getenv("VERIFIER_AUTH_TOKEN")
	}

	return withDatabase(cmd.Context(), func(ctx context.Context, pool *database.Pool) error {
		v, err := service.Register(ctx, store.NewPostgres(pool.DB()), service.RegisterInput{
			VerifierDID:       registerDID,
			AuthToken:         token,
			SigningPrivateKey: string(keyPEM),
		}, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "registered verifier %s (%s)\n", v.VerifierDID, v.ID)
		return nil
	})
}
