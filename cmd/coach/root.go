// ABOUTME: Root Cobra command for coach CLI.
// ABOUTME: Opens the store in PersistentPreRunE and closes it in PersistentPostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/coach/internal/config"
	"github.com/harperreed/coach/internal/storage"
	"github.com/spf13/cobra"
)

var (
	store  *storage.DB
	dbPath string
)

var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "Personal workout tracking backend",
	Long: `Coach is the storage and sync backend for a personal workout tracker.

A coaching model writes dated workout plans through MCP, the plans are
decomposed into relational tables, and workout clients pull plans and
push completed logs over HTTP sync.

QUICK START:

  $ coach seed                     # Create sample plans and a log
  $ coach plan list                # See scheduled dates
  $ coach plan show 2026-03-02     # View one day's plan
  $ coach logs list                # See recent workout logs
  $ coach summary                  # Completion stats and clients

SYNC SERVER:

  Workout clients sync over HTTP using last-write-wins per date:

  $ coach serve                    # Listen on :8000
  $ coach serve --port 9000 --cors-origin "https://workout.example.com"

MCP INTEGRATION:

  Run 'coach mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "coach": { "command": "coach", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Documents are stored relationally in SQLite at ~/.local/share/coach/coach.db.
  Override the location with --db, or set data_dir in
  ~/.config/coach/config.json.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store init for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		path := dbPath
		if path == "" {
			path = cfg.DBPath()
		}

		store, err = storage.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			err := store.Close()
			store = nil
			return err
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file path (overrides config)")
}
