// ABOUTME: Tests for the trailing-window activity summary.
// ABOUTME: Covers counts, completion rate rounding, and parameter validation.
package storage

import (
	"testing"
	"time"

	"github.com/harperreed/coach/internal/models"
)

func TestGetSummary(t *testing.T) {
	db := setupTestDB(t)

	today := time.Now().Format(models.DateFormat)
	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateFormat)

	for _, date := range []string{yesterday, today} {
		if _, err := db.SavePlan(date, buildTestPlan(), "test"); err != nil {
			t.Fatalf("SavePlan failed: %v", err)
		}
	}
	if err := db.SaveLog(yesterday, buildTestLog(), "test", UTCNow()); err != nil {
		t.Fatalf("SaveLog failed: %v", err)
	}

	summary, err := db.GetSummary(7)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}

	if summary.AnalysisPeriodDays != 7 {
		t.Errorf("AnalysisPeriodDays = %d, want 7", summary.AnalysisPeriodDays)
	}
	if summary.PlannedWorkouts != 2 {
		t.Errorf("PlannedWorkouts = %d, want 2", summary.PlannedWorkouts)
	}
	if summary.CompletedWorkouts != 1 {
		t.Errorf("CompletedWorkouts = %d, want 1", summary.CompletedWorkouts)
	}
	if summary.CompletionRatePercent != 50.0 {
		t.Errorf("CompletionRatePercent = %v, want 50.0", summary.CompletionRatePercent)
	}

	// Each test plan holds 2 strength, 1 checklist, 1 interval exercise
	if summary.ExerciseTypes["strength"] != 4 {
		t.Errorf("strength count = %d, want 4", summary.ExerciseTypes["strength"])
	}
	if summary.ExerciseTypes["checklist"] != 2 {
		t.Errorf("checklist count = %d, want 2", summary.ExerciseTypes["checklist"])
	}
	if summary.ExerciseTypes["interval"] != 2 {
		t.Errorf("interval count = %d, want 2", summary.ExerciseTypes["interval"])
	}

	if len(summary.RecentPlanDates) != 2 {
		t.Fatalf("Expected 2 recent plan dates, got %d", len(summary.RecentPlanDates))
	}
	if summary.RecentPlanDates[0] != today || summary.RecentPlanDates[1] != yesterday {
		t.Errorf("Expected newest-first dates, got %v", summary.RecentPlanDates)
	}
}

func TestGetSummaryDefaultDays(t *testing.T) {
	db := setupTestDB(t)

	summary, err := db.GetSummary(0)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if summary.AnalysisPeriodDays != 30 {
		t.Errorf("AnalysisPeriodDays = %d, want 30", summary.AnalysisPeriodDays)
	}
}

func TestGetSummaryTooManyDays(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetSummary(366)
	if !models.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestGetSummaryEmptyDB(t *testing.T) {
	db := setupTestDB(t)

	summary, err := db.GetSummary(30)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if summary.PlannedWorkouts != 0 || summary.CompletedWorkouts != 0 {
		t.Error("Expected zero counts on empty database")
	}
	if summary.CompletionRatePercent != 0 {
		t.Errorf("CompletionRatePercent = %v, want 0", summary.CompletionRatePercent)
	}
	if summary.ExerciseTypes == nil {
		t.Error("Expected non-nil exercise type map")
	}
	if summary.RecentPlanDates == nil || len(summary.RecentPlanDates) != 0 {
		t.Errorf("Expected empty date slice, got %v", summary.RecentPlanDates)
	}
}

func TestGetSummaryRounding(t *testing.T) {
	db := setupTestDB(t)

	today := time.Now()
	for i := 0; i < 3; i++ {
		date := today.AddDate(0, 0, -i).Format(models.DateFormat)
		if _, err := db.SavePlan(date, buildTestPlan(), "test"); err != nil {
			t.Fatalf("SavePlan failed: %v", err)
		}
	}
	if err := db.SaveLog(today.Format(models.DateFormat), buildTestLog(), "test", UTCNow()); err != nil {
		t.Fatalf("SaveLog failed: %v", err)
	}

	summary, err := db.GetSummary(7)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if summary.CompletionRatePercent != 33.3 {
		t.Errorf("CompletionRatePercent = %v, want 33.3", summary.CompletionRatePercent)
	}
}
