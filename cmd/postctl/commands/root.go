package commands

import (
	"context"
	"fmt"
	"os"

	"postboard/internal/bootstrap"
	"postboard/internal/config"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbURL      string
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "postctl",
	Short: "Operator tooling for the postboard API",
	Long: `postctl manages the postboard database outside the API process.

Configuration is read the same way as the server (config.yml and environment
variables). --db overrides DATABASE_URL for a single invocation.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// openRuntime loads configuration and connects without touching the schema.
func openRuntime(ctx context.Context, opts bootstrap.Options) (*config.Config, *bootstrap.Runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	rt, err := bootstrap.InitRuntime(ctx, cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rt, nil
}
