package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"postboard/internal/bootstrap"
	"postboard/internal/database"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply, roll back or inspect the embedded schema migrations.

Subcommands:
  up      - Apply pending migrations
  down    - Roll back one migration by version
  status  - Show applied and pending migrations`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		_, rt, err := openRuntime(ctx, bootstrap.Options{SkipRedis: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := database.RunMigrations(ctx, rt.DB); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "sql migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down <version>",
	Short: "Roll back a single applied migration",
	Example: `  postctl migrate down 3    # drop the likes table
  postctl migrate down 2    # then drop posts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}

		ctx := cmd.Context()
		_, rt, err := openRuntime(ctx, bootstrap.Options{SkipRedis: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := database.RollbackMigration(ctx, rt.DB, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back migration %d\n", version)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		_, rt, err := openRuntime(ctx, bootstrap.Options{SkipRedis: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		status, err := database.GetSchemaStatus(ctx, rt.DB)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		return writeStatus(cmd.OutOrStdout(), status, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

type migrationRow struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
	State   string `json:"state"`
}

func statusRows(status *database.SchemaStatus) []migrationRow {
	applied := make(map[int]bool, len(status.AppliedVersions))
	for _, v := range status.AppliedVersions {
		applied[v] = true
	}
	rows := make([]migrationRow, 0, len(database.GetMigrations()))
	for _, m := range database.GetMigrations() {
		state := "pending"
		if applied[m.Version] {
			state = "applied"
		}
		rows = append(rows, migrationRow{Version: m.Version, Name: m.Name, State: state})
	}
	return rows
}

func writeStatus(w io.Writer, status *database.SchemaStatus, asJSON bool) error {
	rows := statusRows(status)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tSTATE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%06d\t%s\t%s\n", r.Version, r.Name, r.State)
	}
	fmt.Fprintf(tw, "\n%d applied, %d pending\n", len(status.AppliedVersions), len(status.PendingMigrations))
	return tw.Flush()
}
