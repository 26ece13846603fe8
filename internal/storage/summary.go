// ABOUTME: Aggregate statistics over recent plans and logs.
// ABOUTME: Backs the get_workout_summary tool and the summary CLI command.

package storage

import (
	"fmt"
	"math"
	"time"

	"github.com/harperreed/coach/internal/models"
)

// Summary describes planning and completion activity over a trailing window.
type Summary struct {
	AnalysisPeriodDays    int            `json:"analysis_period_days"`
	PlannedWorkouts       int            `json:"planned_workouts"`
	CompletedWorkouts     int            `json:"completed_workouts"`
	CompletionRatePercent float64        `json:"completion_rate_percent"`
	ExerciseTypes         map[string]int `json:"exercise_types_in_recent_plans"`
	RecentPlanDates       []string       `json:"recent_plan_dates"`
}

// GetSummary reports activity for the last days calendar days, capped at 365.
func (d *DB) GetSummary(days int) (*Summary, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		return nil, models.Validationf("days cannot exceed 365")
	}

	today := time.Now()
	end := today.Format(models.DateFormat)
	start := today.AddDate(0, 0, -days).Format(models.DateFormat)

	s := &Summary{
		AnalysisPeriodDays: days,
		ExerciseTypes:      make(map[string]int),
		RecentPlanDates:    []string{},
	}

	err := d.db.QueryRow(`
		SELECT COUNT(*) FROM workout_sessions
		WHERE date >= ? AND date <= ?
	`, start, end).Scan(&s.PlannedWorkouts)
	if err != nil {
		return nil, fmt.Errorf("count planned workouts: %w", err)
	}

	err = d.db.QueryRow(`
		SELECT COUNT(*) FROM workout_session_logs
		WHERE date >= ? AND date <= ?
	`, start, end).Scan(&s.CompletedWorkouts)
	if err != nil {
		return nil, fmt.Errorf("count completed workouts: %w", err)
	}

	if s.PlannedWorkouts > 0 {
		rate := float64(s.CompletedWorkouts) / float64(s.PlannedWorkouts) * 100
		s.CompletionRatePercent = math.Round(rate*10) / 10
	}

	typeRows, err := d.db.Query(`
		SELECT pe.exercise_type, COUNT(*) AS count
		FROM planned_exercises pe
		JOIN workout_sessions ws ON pe.session_id = ws.id
		WHERE ws.date >= ? AND ws.date <= ?
		GROUP BY pe.exercise_type
		ORDER BY count DESC
		LIMIT 7
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("count exercise types: %w", err)
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var exerciseType string
		var count int
		if err := typeRows.Scan(&exerciseType, &count); err != nil {
			return nil, fmt.Errorf("scan exercise type: %w", err)
		}
		s.ExerciseTypes[exerciseType] = count
	}
	if err := typeRows.Err(); err != nil {
		return nil, err
	}

	dateRows, err := d.db.Query(`
		SELECT date FROM workout_sessions
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC
		LIMIT 7
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list recent plan dates: %w", err)
	}
	defer dateRows.Close()
	for dateRows.Next() {
		var date string
		if err := dateRows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan plan date: %w", err)
		}
		s.RecentPlanDates = append(s.RecentPlanDates, date)
	}
	return s, dateRows.Err()
}
