// ABOUTME: CLI commands for managing workout plans.
// ABOUTME: Supports set, show, list, and delete subcommands.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/transform"
	"github.com/spf13/cobra"
)

var (
	planStart string
	planEnd   string
)

var planCmd = &cobra.Command{
	Use:     "plan",
	Aliases: []string{"p"},
	Short:   "Manage workout plans",
	Long: `Manage dated workout plans.

Plans are JSON documents of typed blocks (warmup, strength, cardio,
circuit, accessory, power), each holding exercises. Raw documents in the
loose shape a coaching model writes are normalized on the way in: missing
exercise ids are synthesized, warmup shorthand collapses into a checklist,
and instruction-only blocks become a single cardio exercise.

WORKFLOW:

  1. Write a plan:        coach plan set 2026-03-02 plan.json
  2. Check the schedule:  coach plan list
  3. View a day:          coach plan show 2026-03-02

COMMANDS:

  set      Store a plan document for a date (from file or stdin)
  show     View one day's plan with all blocks and exercises
  list     List scheduled plans in a date range
  delete   Remove a plan and everything under it`,
}

var planSetCmd = &cobra.Command{
	Use:   "set <date> [file]",
	Short: "Store a plan for a date",
	Long: `Store a workout plan document for a date.

The document is read from the given file, or from stdin when no file is
given. It passes through the same normalization pipeline as MCP writes,
so both strict documents and raw model shorthand are accepted.

Examples:
  coach plan set 2026-03-02 plan.json
  cat plan.json | coach plan set 2026-03-02`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := args[0]
		if err := models.ValidateDate(date); err != nil {
			return err
		}

		var data []byte
		var err error
		if len(args) == 2 {
			data, err = os.ReadFile(args[1])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("failed to read plan: %w", err)
		}

		var raw transform.RawPlan
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("invalid plan JSON: %w", err)
		}

		doc, err := transform.Normalize(&raw)
		if err != nil {
			return err
		}

		if _, err := store.SavePlan(date, doc, "cli"); err != nil {
			return fmt.Errorf("failed to save plan: %w", err)
		}

		exercises := 0
		for _, b := range doc.Blocks {
			exercises += len(b.Exercises)
		}
		color.Green("✓ Saved plan for %s", date)
		fmt.Printf("  %s: %d blocks, %d exercises\n", doc.DayName, len(doc.Blocks), exercises)

		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <date>",
	Short: "Show a day's plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stored, err := store.GetPlan(args[0])
		if err != nil {
			return fmt.Errorf("failed to get plan: %w", err)
		}

		faint := color.New(color.Faint)
		plan := stored.Plan

		fmt.Printf("%s: %s\n", stored.Date, plan.DayName)
		if plan.Location != "" {
			fmt.Printf("Location: %s\n", plan.Location)
		}
		if plan.Phase != "" {
			fmt.Printf("Phase: %s\n", plan.Phase)
		}
		if plan.TotalDurationMin != nil {
			fmt.Printf("Duration: %d min\n", *plan.TotalDurationMin)
		}
		fmt.Println(faint.Sprintf("Modified %s by %s", stored.LastModified, stored.ModifiedBy))

		for _, b := range plan.Blocks {
			title := b.Title
			if title == "" {
				title = string(b.BlockType)
			}
			header := fmt.Sprintf("\n%s [%s]", title, b.BlockType)
			if b.DurationMin != nil {
				header += fmt.Sprintf(" %d min", *b.DurationMin)
			}
			if b.Rounds != nil {
				header += fmt.Sprintf(" x%d rounds", *b.Rounds)
			}
			fmt.Println(header)
			if b.RestGuidance != "" {
				fmt.Println(faint.Sprintf("  rest: %s", b.RestGuidance))
			}

			for _, ex := range b.Exercises {
				line := fmt.Sprintf("  %s %s", faint.Sprint(padRight(ex.ID, 18)), ex.Name)
				if detail := exerciseDetail(ex); detail != "" {
					line += faint.Sprintf("  (%s)", detail)
				}
				fmt.Println(line)
				if ex.GuidanceNote != "" {
					fmt.Println(faint.Sprintf("      %s", truncate(ex.GuidanceNote, 70)))
				}
			}
		}

		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List scheduled plans",
	Long: `List plans in a date range.

Defaults to today through six weeks out, matching the scheduling horizon
a coaching model plans against.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := planStart
		if start == "" {
			start = time.Now().Format(models.DateFormat)
		}
		end := planEnd
		if end == "" {
			end = time.Now().AddDate(0, 0, 42).Format(models.DateFormat)
		}

		plans, err := store.ListPlans(start, end)
		if err != nil {
			return fmt.Errorf("failed to list plans: %w", err)
		}

		if len(plans) == 0 {
			fmt.Println("No plans found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, p := range plans {
			exercises := 0
			for _, b := range p.Plan.Blocks {
				exercises += len(b.Exercises)
			}
			fmt.Printf("%s %s %s\n",
				p.Date,
				padRight(p.Plan.DayName, 24),
				faint.Sprintf("%d blocks, %d exercises", len(p.Plan.Blocks), exercises))
		}

		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Delete a plan",
	Long: `Delete the plan for a date.

Removes the session and every block, exercise, and checklist item under
it. Logged results for the date are kept but lose their session link.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.DeletePlan(args[0]); err != nil {
			return fmt.Errorf("failed to delete plan: %w", err)
		}

		color.Green("✓ Deleted plan for %s", args[0])
		return nil
	},
}

// exerciseDetail condenses an exercise's target fields into one line.
func exerciseDetail(ex models.Exercise) string {
	var parts []string
	if ex.TargetSets != nil && ex.TargetReps != "" {
		parts = append(parts, fmt.Sprintf("%dx%s", *ex.TargetSets, ex.TargetReps))
	} else if ex.TargetSets != nil {
		parts = append(parts, fmt.Sprintf("%d sets", *ex.TargetSets))
	}
	if ex.TargetDurationMin != nil {
		parts = append(parts, fmt.Sprintf("%d min", *ex.TargetDurationMin))
	}
	if ex.TargetDurationSec != nil {
		parts = append(parts, fmt.Sprintf("%d sec", *ex.TargetDurationSec))
	}
	if ex.Rounds != nil {
		parts = append(parts, fmt.Sprintf("%d rounds", *ex.Rounds))
	}
	if ex.WorkDurationSec != nil && ex.RestDurationSec != nil {
		parts = append(parts, fmt.Sprintf("%ds on/%ds off", *ex.WorkDurationSec, *ex.RestDurationSec))
	}
	if len(ex.Items) > 0 {
		parts = append(parts, fmt.Sprintf("%d items", len(ex.Items)))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	planListCmd.Flags().StringVar(&planStart, "start", "", "range start date YYYY-MM-DD (default: today)")
	planListCmd.Flags().StringVar(&planEnd, "end", "", "range end date YYYY-MM-DD (default: six weeks out)")

	planCmd.AddCommand(planSetCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planDeleteCmd)
	rootCmd.AddCommand(planCmd)
}
