// ABOUTME: CLI command for workout activity summary.
// ABOUTME: Shows completion stats, exercise types, and synced clients.
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var summaryDays int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show activity summary",
	Long: `Show workout activity for a recent window.

Counts planned and completed workouts, the exercise type mix of recent
plans, and the clients that have synced.

Examples:
  coach summary              # Last 30 days
  coach summary --days 90    # Last quarter`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.GetSummary(summaryDays)
		if err != nil {
			return fmt.Errorf("failed to build summary: %w", err)
		}

		fmt.Printf("Last %d days\n", s.AnalysisPeriodDays)
		fmt.Printf("  Planned:    %d\n", s.PlannedWorkouts)
		fmt.Printf("  Completed:  %d\n", s.CompletedWorkouts)

		rate := color.New(color.FgGreen)
		if s.CompletionRatePercent < 50 {
			rate = color.New(color.FgRed)
		} else if s.CompletionRatePercent < 80 {
			rate = color.New(color.FgYellow)
		}
		fmt.Printf("  Completion: %s\n", rate.Sprintf("%.1f%%", s.CompletionRatePercent))

		if len(s.ExerciseTypes) > 0 {
			types := make([]string, 0, len(s.ExerciseTypes))
			for t := range s.ExerciseTypes {
				types = append(types, t)
			}
			sort.Strings(types)

			fmt.Println("\nExercise types in recent plans:")
			for _, t := range types {
				fmt.Printf("  %s %d\n", padRight(t, 16), s.ExerciseTypes[t])
			}
		}

		if len(s.RecentPlanDates) > 0 {
			fmt.Printf("\nRecent plan dates: %s\n", strings.Join(s.RecentPlanDates, ", "))
		}

		clients, err := store.ListClients()
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}
		if len(clients) > 0 {
			faint := color.New(color.Faint)
			fmt.Println("\nClients:")
			for _, c := range clients {
				fmt.Printf("  %s %s %s\n",
					padRight(c.Name, 20),
					faint.Sprint(c.ID),
					faint.Sprintf("last seen %s", c.LastSeenAt))
			}
		}

		return nil
	},
}

func init() {
	summaryCmd.Flags().IntVar(&summaryDays, "days", 30, "analysis window in days (max 365)")
	rootCmd.AddCommand(summaryCmd)
}
