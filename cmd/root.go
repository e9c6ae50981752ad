// Package cmd holds the dugout command line: serve runs the API, migrate
// brings the schema up to date.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dugout",
	Short: "Team management API for baseball and softball programs",
	Long: `Dugout serves the REST and realtime API behind the team app:
rosters, schedules, training and meal plans, messaging, the knowledge base
and player profiles.

  $ dugout migrate    # create or update tables
  $ dugout serve      # start the HTTP server

Configuration comes from the environment or a .env file in the working
directory (DB_HOST, DB_NAME, JWT_ACCESS_TOKEN_SECRET, PORT, ...).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
