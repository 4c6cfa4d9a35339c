// Package cli holds the credex command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"credex/internal/platform/health"
	"credex/internal/platform/logger"
)

var rootCmd = &cobra.Command{
	Use:               "credex",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Verifiable credential presentation request service",
	Long: `credex creates signed presentation requests on behalf of a Verifier,
keeps the Verifier's issuance auth token current and accepts versioned
presentation submissions.`,
	SilenceUsage: true,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	rootCmd.Version = health.Version
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(verifierCmd)
}

func newLogger(level, environment string) *slog.Logger {
	l := logger.New(logger.ParseLogLevel(level), environment)
	slog.SetDefault(l)
	return l
}
