// ABOUTME: CLI command that seeds sample plans and a completed log.
// ABOUTME: Writes demo data through the normal codec for quick exploration.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create sample data",
	Long: `Create sample plans and a completed log for exploring coach.

Writes a strength plan for yesterday (with a fully logged session), a
lower-body plan for today, and a conditioning plan for tomorrow. All
documents go through the normal decompose codec, so the result is
exactly what MCP writes and sync pushes would produce.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateFormat)
		today := time.Now().Format(models.DateFormat)
		tomorrow := time.Now().AddDate(0, 0, 1).Format(models.DateFormat)

		if _, err := store.SavePlan(yesterday, sampleUpperPlan(), "seed"); err != nil {
			return fmt.Errorf("failed to seed plan: %w", err)
		}
		if _, err := store.SavePlan(today, sampleLowerPlan(), "seed"); err != nil {
			return fmt.Errorf("failed to seed plan: %w", err)
		}
		if _, err := store.SavePlan(tomorrow, sampleConditioningPlan(), "seed"); err != nil {
			return fmt.Errorf("failed to seed plan: %w", err)
		}
		if err := store.SaveLog(yesterday, sampleUpperLog(), "seed", storage.UTCNow()); err != nil {
			return fmt.Errorf("failed to seed log: %w", err)
		}

		color.Green("✓ Seeded 3 plans and 1 log")
		faint := color.New(color.Faint)
		fmt.Printf("  %s  Upper Strength (logged)\n", faint.Sprint(yesterday))
		fmt.Printf("  %s  Lower Strength\n", faint.Sprint(today))
		fmt.Printf("  %s  Conditioning\n", faint.Sprint(tomorrow))

		return nil
	},
}

func sampleUpperPlan() *models.PlanDocument {
	return &models.PlanDocument{
		DayName:          "Upper Strength",
		Location:         "Home Gym",
		Phase:            "Base",
		TotalDurationMin: models.Int(60),
		Blocks: []models.Block{
			{
				BlockType:   models.BlockWarmup,
				Title:       "Warmup",
				DurationMin: models.Int(8),
				Exercises: []models.Exercise{{
					ID:                "warmup_0",
					Name:              "Warmup",
					Type:              models.ExerciseChecklist,
					TargetDurationMin: models.Int(8),
					Items: []string{
						"Band pull-aparts x15",
						"Arm circles x10",
						"Scap push-ups x10",
					},
				}},
			},
			{
				BlockType:    models.BlockStrength,
				Title:        "Main Lifts",
				RestGuidance: "Rest 2-3 min between sets",
				Exercises: []models.Exercise{
					{
						ID:           "bench_1",
						Name:         "Bench Press",
						Type:         models.ExerciseStrength,
						TargetSets:   models.Int(4),
						TargetReps:   "6-8",
						GuidanceNote: "Leave one rep in reserve",
					},
					{
						ID:         "row_1",
						Name:       "Barbell Row",
						Type:       models.ExerciseStrength,
						TargetSets: models.Int(4),
						TargetReps: "8",
					},
				},
			},
			{
				BlockType: models.BlockAccessory,
				Title:     "Accessories",
				Exercises: []models.Exercise{
					{
						ID:         "curl_1",
						Name:       "Dumbbell Curl",
						Type:       models.ExerciseStrength,
						TargetSets: models.Int(3),
						TargetReps: "12",
					},
					{
						ID:                "plank_1",
						Name:              "Plank",
						Type:              models.ExerciseDuration,
						TargetDurationSec: models.Int(60),
						ShowTime:          true,
					},
				},
			},
		},
	}
}

func sampleLowerPlan() *models.PlanDocument {
	return &models.PlanDocument{
		DayName:          "Lower Strength",
		Location:         "Home Gym",
		Phase:            "Base",
		TotalDurationMin: models.Int(60),
		Blocks: []models.Block{
			{
				BlockType:    models.BlockStrength,
				Title:        "Main Lifts",
				RestGuidance: "Rest 3 min between sets",
				Exercises: []models.Exercise{
					{
						ID:           "squat_1",
						Name:         "Back Squat",
						Type:         models.ExerciseStrength,
						TargetSets:   models.Int(5),
						TargetReps:   "5",
						GuidanceNote: "Work up to a heavy but clean top set",
					},
					{
						ID:         "rdl_1",
						Name:       "Romanian Deadlift",
						Type:       models.ExerciseStrength,
						TargetSets: models.Int(3),
						TargetReps: "8-10",
					},
				},
			},
		},
	}
}

func sampleConditioningPlan() *models.PlanDocument {
	return &models.PlanDocument{
		DayName:          "Conditioning",
		TotalDurationMin: models.Int(45),
		Blocks: []models.Block{
			{
				BlockType:    models.BlockCircuit,
				Title:        "Circuit",
				Rounds:       models.Int(3),
				RestGuidance: "60s between rounds",
				Exercises: []models.Exercise{
					{
						ID:         "kb_swing_1",
						Name:       "Kettlebell Swing",
						Type:       models.ExerciseCircuit,
						TargetReps: "15",
						Rounds:     models.Int(3),
						HideWeight: false,
					},
					{
						ID:         "burpee_1",
						Name:       "Burpees",
						Type:       models.ExerciseCircuit,
						TargetReps: "10",
						Rounds:     models.Int(3),
						HideWeight: true,
					},
				},
			},
			{
				BlockType:   models.BlockCardio,
				Title:       "Intervals",
				DurationMin: models.Int(20),
				Exercises: []models.Exercise{{
					ID:                "bike_1",
					Name:              "Bike VO2 Intervals",
					Type:              models.ExerciseInterval,
					Rounds:            models.Int(5),
					WorkDurationSec:   models.Int(60),
					RestDurationSec:   models.Int(120),
					TargetDurationMin: models.Int(20),
				}},
			},
		},
	}
}

func sampleUpperLog() *models.LogDocument {
	return &models.LogDocument{
		Feedback: models.SessionFeedback{
			GeneralNotes: "Solid session, bench felt strong",
		},
		Exercises: map[string]models.ExerciseEntry{
			"warmup_0": {
				Completed: true,
				CompletedItems: []string{
					"Band pull-aparts x15",
					"Arm circles x10",
					"Scap push-ups x10",
				},
			},
			"bench_1": {
				Completed: true,
				Sets: []models.SetEntry{
					{SetNum: 1, Weight: models.Float64(80), Reps: models.Int(8), Unit: "kg", Completed: true},
					{SetNum: 2, Weight: models.Float64(85), Reps: models.Int(7), RPE: models.Float64(8), Unit: "kg", Completed: true},
					{SetNum: 3, Weight: models.Float64(85), Reps: models.Int(6), RPE: models.Float64(8.5), Unit: "kg", Completed: true},
					{SetNum: 4, Weight: models.Float64(85), Reps: models.Int(6), RPE: models.Float64(9), Unit: "kg", Completed: true},
				},
			},
			"row_1": {
				Completed: true,
				Sets: []models.SetEntry{
					{SetNum: 1, Weight: models.Float64(70), Reps: models.Int(8), Unit: "kg", Completed: true},
					{SetNum: 2, Weight: models.Float64(70), Reps: models.Int(8), Unit: "kg", Completed: true},
				},
			},
			"curl_1": {
				Completed: true,
				UserNote:  "Went lighter, left elbow was cranky",
			},
			"plank_1": {
				Completed: false,
			},
		},
	}
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
