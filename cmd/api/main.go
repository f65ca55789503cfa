package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "waypoint-api",
	Short: "Waypoint planner REST API",
	Long: `Serve the Waypoint planner API: tasks, milestones, roadmaps, tags,
assignees and task statuses backed by PostgreSQL.

Configuration comes from the environment (DATABASE_URL, API_ADDR, ...).
Running without a subcommand is the same as "serve".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
