// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for coaching model integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/coach/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP lets a coaching model read and write workout plans through a
standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "coach": {
        "command": "coach",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  get_workout_plan         Read plans in a date range
  get_workout_logs         Read logged results in a date range
  set_workout_plan         Store a plan for a date
  get_workout_summary      Completion stats for a recent window
  list_scheduled_dates     Dates that have plans
  ingest_training_program  Store a multi-date program in one call
  update_exercise          Update fields of a planned exercise
  add_exercise             Add an exercise to a plan
  remove_exercise          Remove an exercise from a plan
  delete_workout_plan      Delete a plan
  update_plan_metadata     Update plan-level fields

AVAILABLE RESOURCES:

  coach://plan-guide    Plan format documentation
  coach://schedule      Upcoming scheduled dates
  coach://summary       Recent activity summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(store)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
