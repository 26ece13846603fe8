// ABOUTME: Tests for plan document types, enums, and flexible decoding.
// ABOUTME: Covers type validation, FlexString, date checks, and sparse JSON.
package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestIsValidBlockType(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"warmup", true},
		{"strength", true},
		{"cardio", true},
		{"circuit", true},
		{"accessory", true},
		{"power", true},
		{"stretching", false},
		{"Strength", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidBlockType(tt.input); got != tt.want {
			t.Errorf("IsValidBlockType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsValidExerciseType(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"strength", true},
		{"duration", true},
		{"checklist", true},
		{"weighted_time", true},
		{"interval", true},
		{"circuit", true},
		{"cardio", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidExerciseType(tt.input); got != tt.want {
			t.Errorf("IsValidExerciseType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFlexStringUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FlexString
		wantErr bool
	}{
		{"string", `"8-10"`, "8-10", false},
		{"integer", `8`, "8", false},
		{"float", `8.5`, "8.5", false},
		{"null", `null`, "", false},
		{"bool", `true`, "", true},
		{"array", `[8]`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
			}
			if f != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, f, tt.want)
			}
		})
	}
}

func TestFlexStringInExercise(t *testing.T) {
	// Model output writes rep targets both as strings and bare numbers
	var ex Exercise
	if err := json.Unmarshal([]byte(`{"id": "squat_1", "name": "Squat", "type": "strength", "target_reps": 12}`), &ex); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if ex.TargetReps != "12" {
		t.Errorf("TargetReps = %q, want %q", ex.TargetReps, "12")
	}
}

func TestValidateDate(t *testing.T) {
	valid := []string{"2026-03-02", "2025-12-31", "2024-02-29"}
	for _, date := range valid {
		if err := ValidateDate(date); err != nil {
			t.Errorf("ValidateDate(%q) = %v, want nil", date, err)
		}
	}

	invalid := []string{"", "03/02/2026", "2026-3-2", "2026-13-02", "2026-02-30", "tomorrow"}
	for _, date := range invalid {
		err := ValidateDate(date)
		if err == nil {
			t.Errorf("ValidateDate(%q) = nil, want error", date)
			continue
		}
		if !IsValidation(err) {
			t.Errorf("ValidateDate(%q) returned non-validation error %v", date, err)
		}
	}
}

func TestPlanDocumentSparseJSON(t *testing.T) {
	plan := PlanDocument{
		DayName: "Push Day",
		Blocks: []Block{{
			BlockType: BlockStrength,
			Exercises: []Exercise{{ID: "bench_1", Name: "Bench Press", Type: ExerciseStrength}},
		}},
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	out := string(raw)

	// Unset optional fields stay out of the document entirely
	for _, absent := range []string{"location", "phase", "total_duration_min", "_lastModified", "target_sets", "guidance_note"} {
		if strings.Contains(out, absent) {
			t.Errorf("Expected %q omitted from sparse document:\n%s", absent, out)
		}
	}
	if !strings.Contains(out, `"day_name":"Push Day"`) {
		t.Errorf("Expected day_name present:\n%s", out)
	}
}

func TestPlanDocumentFullRoundTrip(t *testing.T) {
	input := `{
		"day_name": "Upper Strength",
		"location": "Home Gym",
		"phase": "Base",
		"total_duration_min": 60,
		"blocks": [
			{
				"block_index": 0,
				"block_type": "strength",
				"title": "Main Lifts",
				"rest_guidance": "Rest 2-3 min",
				"exercises": [
					{"id": "bench_1", "name": "Bench Press", "type": "strength", "target_sets": 4, "target_reps": "6-8", "hide_weight": true}
				]
			}
		]
	}`

	var plan PlanDocument
	if err := json.Unmarshal([]byte(input), &plan); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if plan.DayName != "Upper Strength" || plan.Location != "Home Gym" {
		t.Errorf("Header fields = %q / %q", plan.DayName, plan.Location)
	}
	if plan.TotalDurationMin == nil || *plan.TotalDurationMin != 60 {
		t.Error("Expected total_duration_min 60")
	}
	if len(plan.Blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(plan.Blocks))
	}
	block := plan.Blocks[0]
	if block.BlockIndex == nil || *block.BlockIndex != 0 {
		t.Error("Expected block_index 0")
	}
	ex := block.Exercises[0]
	if ex.TargetSets == nil || *ex.TargetSets != 4 || ex.TargetReps != "6-8" || !ex.HideWeight {
		t.Errorf("Exercise fields lost: %+v", ex)
	}
}
