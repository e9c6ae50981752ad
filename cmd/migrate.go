package cmd

import (
	"fmt"

	"github.com/DhavalSuthar-24/dugout/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateDryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Runs GORM AutoMigrate for every table. Columns and indexes are added;
nothing is dropped.

  dugout migrate --dry-run   # list the tables that would be migrated
  dugout migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tables := schema()
		if migrateDryRun {
			for _, m := range tables {
				fmt.Fprintf(cmd.OutOrStdout(), "%T\n", m)
			}
			return nil
		}

		if err := config.Initialize(); err != nil {
			return err
		}
		cfg := config.GetConfig()
		log, err := config.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		if err := config.DB.AutoMigrate(tables...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("schema migrated", zap.Int("tables", len(tables)))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "list tables without touching the database")
}
