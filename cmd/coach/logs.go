// ABOUTME: CLI commands for viewing workout logs.
// ABOUTME: Supports show and list subcommands.
package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/coach/internal/models"
	"github.com/spf13/cobra"
)

var logsDays int

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log"},
	Short:   "View workout logs",
	Long: `View logged workout results.

Logs arrive from workout clients through sync push. Each log records,
per planned exercise, what was actually done: sets with weight and reps,
cardio durations with heart rate, and checked-off checklist items, plus
session-level feedback.

COMMANDS:

  show     View one day's log in full
  list     List recent logs`,
}

var logsShowCmd = &cobra.Command{
	Use:   "show <date>",
	Short: "Show a day's log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stored, err := store.GetLog(args[0])
		if err != nil {
			return fmt.Errorf("failed to get log: %w", err)
		}

		faint := color.New(color.Faint)
		log := stored.Log

		fmt.Printf("Log: %s\n", stored.Date)
		fmt.Println(faint.Sprintf("Modified %s by %s", stored.LastModified, stored.ModifiedBy))
		if log.Feedback.PainDiscomfort != "" {
			color.Yellow("⚠ Pain: %s", log.Feedback.PainDiscomfort)
		}
		if log.Feedback.GeneralNotes != "" {
			fmt.Printf("Notes: %s\n", log.Feedback.GeneralNotes)
		}

		keys := make([]string, 0, len(log.Exercises))
		for key := range log.Exercises {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Println()
		for _, key := range keys {
			entry := log.Exercises[key]
			mark := color.RedString("✗")
			if entry.Completed {
				mark = color.GreenString("✓")
			}
			fmt.Printf("%s %s\n", mark, key)
			if entry.UserNote != "" {
				fmt.Println(faint.Sprintf("    %s", entry.UserNote))
			}
			for _, set := range entry.Sets {
				fmt.Printf("    set %d:%s\n", set.SetNum, setDetail(set))
			}
			if entry.DurationMin != nil {
				line := fmt.Sprintf("    %.1f min", *entry.DurationMin)
				if entry.AvgHR != nil {
					line += fmt.Sprintf(", avg HR %d", *entry.AvgHR)
				}
				if entry.MaxHR != nil {
					line += fmt.Sprintf(", max HR %d", *entry.MaxHR)
				}
				fmt.Println(line)
			}
			if len(entry.CompletedItems) > 0 {
				fmt.Printf("    %d items checked\n", len(entry.CompletedItems))
			}
		}

		return nil
	},
}

var logsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		end := time.Now().Format(models.DateFormat)
		start := time.Now().AddDate(0, 0, -logsDays).Format(models.DateFormat)

		logs, err := store.ListLogs(start, end)
		if err != nil {
			return fmt.Errorf("failed to list logs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No logs found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, l := range logs {
			completed := 0
			for _, entry := range l.Log.Exercises {
				if entry.Completed {
					completed++
				}
			}
			notes := ""
			if l.Log.Feedback.GeneralNotes != "" {
				notes = faint.Sprintf(" (%s)", truncate(l.Log.Feedback.GeneralNotes, 40))
			}
			fmt.Printf("%s %d/%d completed%s\n", l.Date, completed, len(l.Log.Exercises), notes)
		}

		return nil
	},
}

// setDetail condenses one recorded set into a display fragment.
func setDetail(set models.SetEntry) string {
	out := ""
	if set.Weight != nil {
		unit := set.Unit
		if unit == "" {
			unit = "lbs"
		}
		out += fmt.Sprintf(" %.1f %s", *set.Weight, unit)
	}
	if set.Reps != nil {
		out += fmt.Sprintf(" x%d", *set.Reps)
	}
	if set.DurationSec != nil {
		out += fmt.Sprintf(" %.0f sec", *set.DurationSec)
	}
	if set.RPE != nil {
		out += fmt.Sprintf(" @ RPE %.1f", *set.RPE)
	}
	if out == "" {
		if set.Completed {
			out = " done"
		} else {
			out = " skipped"
		}
	}
	return out
}

func init() {
	logsListCmd.Flags().IntVarP(&logsDays, "days", "n", 30, "how many days back to list")

	logsCmd.AddCommand(logsShowCmd)
	logsCmd.AddCommand(logsListCmd)
	rootCmd.AddCommand(logsCmd)
}
