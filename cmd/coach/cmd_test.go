// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Tests display helpers, command structure, and end-to-end command runs.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short string no truncation",
			input:  "hello",
			maxLen: 10,
			want:   "hello",
		},
		{
			name:   "exact length",
			input:  "hello",
			maxLen: 5,
			want:   "hello",
		},
		{
			name:   "needs truncation",
			input:  "hello world this is a long string",
			maxLen: 10,
			want:   "hello w...",
		},
		{
			name:   "truncate at boundary",
			input:  "abcdefghij",
			maxLen: 6,
			want:   "abc...",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 10,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		want   string
	}{
		{
			name:   "needs padding",
			input:  "hi",
			length: 5,
			want:   "hi   ",
		},
		{
			name:   "exact length",
			input:  "hello",
			length: 5,
			want:   "hello",
		},
		{
			name:   "longer than length",
			input:  "hello world",
			length: 5,
			want:   "hello world",
		},
		{
			name:   "empty string",
			input:  "",
			length: 5,
			want:   "     ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := padRight(tt.input, tt.length)
			if got != tt.want {
				t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
			}
		})
	}
}

func TestExerciseDetail(t *testing.T) {
	tests := []struct {
		name string
		ex   models.Exercise
		want string
	}{
		{
			name: "sets and reps",
			ex:   models.Exercise{TargetSets: models.Int(4), TargetReps: "6-8"},
			want: "4x6-8",
		},
		{
			name: "sets only",
			ex:   models.Exercise{TargetSets: models.Int(3)},
			want: "3 sets",
		},
		{
			name: "duration minutes",
			ex:   models.Exercise{TargetDurationMin: models.Int(10)},
			want: "10 min",
		},
		{
			name: "duration seconds",
			ex:   models.Exercise{TargetDurationSec: models.Int(60)},
			want: "60 sec",
		},
		{
			name: "interval rounds with work and rest",
			ex: models.Exercise{
				Rounds:          models.Int(5),
				WorkDurationSec: models.Int(60),
				RestDurationSec: models.Int(120),
			},
			want: "5 rounds, 60s on/120s off",
		},
		{
			name: "checklist items",
			ex:   models.Exercise{Items: []string{"a", "b", "c"}},
			want: "3 items",
		},
		{
			name: "no target fields",
			ex:   models.Exercise{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exerciseDetail(tt.ex)
			if got != tt.want {
				t.Errorf("exerciseDetail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetDetail(t *testing.T) {
	tests := []struct {
		name string
		set  models.SetEntry
		want string
	}{
		{
			name: "weight and reps",
			set:  models.SetEntry{Weight: models.Float64(80), Reps: models.Int(8), Unit: "kg"},
			want: " 80.0 kg x8",
		},
		{
			name: "weight defaults unit",
			set:  models.SetEntry{Weight: models.Float64(100)},
			want: " 100.0 lbs",
		},
		{
			name: "weight reps and rpe",
			set:  models.SetEntry{Weight: models.Float64(85), Reps: models.Int(6), RPE: models.Float64(8.5), Unit: "kg"},
			want: " 85.0 kg x6 @ RPE 8.5",
		},
		{
			name: "duration only",
			set:  models.SetEntry{DurationSec: models.Float64(45)},
			want: " 45 sec",
		},
		{
			name: "bare completed set",
			set:  models.SetEntry{Completed: true},
			want: " done",
		},
		{
			name: "bare skipped set",
			set:  models.SetEntry{},
			want: " skipped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := setDetail(tt.set)
			if got != tt.want {
				t.Errorf("setDetail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRootCmdStructure(t *testing.T) {
	if rootCmd.Use != "coach" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "coach")
	}

	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}
}

func TestRootCmdSubcommands(t *testing.T) {
	expected := []string{"plan", "logs", "summary", "serve", "mcp", "migrate", "export", "import", "seed"}

	cmdNames := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdNames[cmd.Name()] = true
	}

	for _, name := range expected {
		if !cmdNames[name] {
			t.Errorf("Expected subcommand %q not found", name)
		}
	}
}

func TestRootCmdDBFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("db")
	if flag == nil {
		t.Error("Expected --db persistent flag on root command")
	}
}

func TestPlanCmdSubcommands(t *testing.T) {
	expected := []string{"set", "show", "list", "delete"}

	cmdNames := make(map[string]bool)
	for _, cmd := range planCmd.Commands() {
		cmdNames[cmd.Name()] = true
	}

	for _, name := range expected {
		if !cmdNames[name] {
			t.Errorf("Expected plan subcommand %q not found", name)
		}
	}
}

func TestPlanCmdAliases(t *testing.T) {
	found := false
	for _, alias := range planCmd.Aliases {
		if alias == "p" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'p' alias for planCmd")
	}
}

func TestLogsCmdSubcommands(t *testing.T) {
	expected := []string{"show", "list"}

	cmdNames := make(map[string]bool)
	for _, cmd := range logsCmd.Commands() {
		cmdNames[cmd.Name()] = true
	}

	for _, name := range expected {
		if !cmdNames[name] {
			t.Errorf("Expected logs subcommand %q not found", name)
		}
	}
}

func TestLogsCmdAliases(t *testing.T) {
	found := false
	for _, alias := range logsCmd.Aliases {
		if alias == "log" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'log' alias for logsCmd")
	}
}

func TestPlanListCmdFlags(t *testing.T) {
	startFlag := planListCmd.Flags().Lookup("start")
	if startFlag == nil {
		t.Error("Expected --start flag on plan list command")
	}

	endFlag := planListCmd.Flags().Lookup("end")
	if endFlag == nil {
		t.Error("Expected --end flag on plan list command")
	}
}

func TestLogsListCmdFlags(t *testing.T) {
	daysFlag := logsListCmd.Flags().Lookup("days")
	if daysFlag == nil {
		t.Fatal("Expected --days flag on logs list command")
	}

	if daysFlag.DefValue != "30" {
		t.Errorf("Expected default days 30, got %s", daysFlag.DefValue)
	}
}

func TestSummaryCmdFlags(t *testing.T) {
	daysFlag := summaryCmd.Flags().Lookup("days")
	if daysFlag == nil {
		t.Fatal("Expected --days flag on summary command")
	}

	if daysFlag.DefValue != "30" {
		t.Errorf("Expected default days 30, got %s", daysFlag.DefValue)
	}
}

func TestServeCmdFlags(t *testing.T) {
	addrFlag := serveCmd.Flags().Lookup("addr")
	if addrFlag == nil {
		t.Error("Expected --addr flag on serve command")
	}

	portFlag := serveCmd.Flags().Lookup("port")
	if portFlag == nil {
		t.Fatal("Expected --port flag on serve command")
	}
	if portFlag.DefValue != "8000" {
		t.Errorf("Expected default port 8000, got %s", portFlag.DefValue)
	}

	corsFlag := serveCmd.Flags().Lookup("cors-origin")
	if corsFlag == nil {
		t.Error("Expected --cors-origin flag on serve command")
	}
}

func TestExportCmdFlags(t *testing.T) {
	outputFlag := exportCmd.Flags().Lookup("output")
	if outputFlag == nil {
		t.Error("Expected --output flag on export command")
	}

	sinceFlag := exportCmd.Flags().Lookup("since")
	if sinceFlag == nil {
		t.Error("Expected --since flag on export command")
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	expected := map[string]bool{"json": false, "yaml": false, "markdown": false}

	for _, arg := range exportCmd.ValidArgs {
		if _, ok := expected[arg]; ok {
			expected[arg] = true
		}
	}

	for arg, found := range expected {
		if !found {
			t.Errorf("Expected valid arg %q for exportCmd", arg)
		}
	}
}

func TestMigrateCmdDryRunFlag(t *testing.T) {
	flag := migrateCmd.Flags().Lookup("dry-run")
	if flag == nil {
		t.Error("Expected --dry-run flag on migrate command")
	}
}

// setupTestCLI sets up a test database for CLI testing.
// It redirects XDG_DATA_HOME and XDG_CONFIG_HOME to a temp directory so
// commands open a throwaway store instead of the real one.
func setupTestCLI(t *testing.T) (*storage.DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "coach-cli-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	originalData := os.Getenv("XDG_DATA_HOME")
	originalConfig := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_DATA_HOME", tmpDir)
	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	// A --db path from an earlier test must not leak into this one
	dbPath = ""

	// Pre-open the database to create the schema
	testDB, err := storage.Open(filepath.Join(tmpDir, "coach", "coach.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		os.Setenv("XDG_DATA_HOME", originalData)
		os.Setenv("XDG_CONFIG_HOME", originalConfig)
		t.Fatalf("Failed to open database: %v", err)
	}

	cleanup := func() {
		if store != nil {
			store.Close()
			store = nil
		}
		testDB.Close()
		os.RemoveAll(tmpDir)
		os.Setenv("XDG_DATA_HOME", originalData)
		os.Setenv("XDG_CONFIG_HOME", originalConfig)
	}

	return testDB, cleanup
}

func cliTestPlan() *models.PlanDocument {
	return &models.PlanDocument{
		DayName: "Push Day",
		Blocks: []models.Block{{
			BlockType: models.BlockStrength,
			Title:     "Main Lifts",
			Exercises: []models.Exercise{{
				ID:         "bench_1",
				Name:       "Bench Press",
				Type:       models.ExerciseStrength,
				TargetSets: models.Int(3),
				TargetReps: "8",
			}},
		}},
	}
}

func cliTestLog() *models.LogDocument {
	return &models.LogDocument{
		Feedback: models.SessionFeedback{GeneralNotes: "Felt good"},
		Exercises: map[string]models.ExerciseEntry{
			"bench_1": {
				Completed: true,
				Sets: []models.SetEntry{
					{SetNum: 1, Weight: models.Float64(80), Reps: models.Int(8), Unit: "kg", Completed: true},
				},
			},
		},
	}
}

const cliPlanJSON = `{
  "day_name": "Push Day",
  "location": "Gym",
  "blocks": [
    {
      "block_type": "strength",
      "title": "Main Lifts",
      "exercises": [
        {"id": "bench_1", "name": "Bench Press", "type": "strength", "target_sets": 3, "target_reps": "8"}
      ]
    }
  ]
}`

const cliRawPlanJSON = `{
  "day_name": "Leg Day",
  "blocks": [
    {
      "block_type": "strength",
      "exercises": [
        {"name": "Goblet Squat", "sets": 4, "reps": 8}
      ]
    }
  ]
}`

func TestPlanSetCmdWithDB(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	planFile := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(planFile, []byte(cliPlanJSON), 0600); err != nil {
		t.Fatalf("Failed to write plan file: %v", err)
	}

	rootCmd.SetArgs([]string{"plan", "set", "2026-03-02", planFile})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("plan set command failed: %v", err)
	}

	// Verify plan was stored
	stored, err := testDB.GetPlan("2026-03-02")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if stored.Plan.DayName != "Push Day" {
		t.Errorf("Expected day_name 'Push Day', got %q", stored.Plan.DayName)
	}
	if stored.ModifiedBy != "cli" {
		t.Errorf("Expected modified_by 'cli', got %q", stored.ModifiedBy)
	}
}

func TestPlanSetCmdTransformsRawPlan(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	planFile := filepath.Join(t.TempDir(), "raw.json")
	if err := os.WriteFile(planFile, []byte(cliRawPlanJSON), 0600); err != nil {
		t.Fatalf("Failed to write plan file: %v", err)
	}

	rootCmd.SetArgs([]string{"plan", "set", "2026-03-09", planFile})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("plan set command failed: %v", err)
	}

	// The raw document has no exercise ids; the pipeline synthesizes them
	stored, err := testDB.GetPlan("2026-03-09")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	ex := stored.Plan.Blocks[0].Exercises[0]
	if ex.ID != "strength_0_1" {
		t.Errorf("Expected synthesized id 'strength_0_1', got %q", ex.ID)
	}
	if ex.TargetSets == nil || *ex.TargetSets != 4 {
		t.Error("Expected target_sets 4 from raw 'sets' field")
	}
}

func TestPlanSetCmdInvalidDate(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"plan", "set", "03/02/2026", "nonexistent.json"})
	err := rootCmd.Execute()

	if err == nil {
		t.Error("Expected error for invalid date")
	}
}

func TestPlanSetCmdInvalidJSON(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	planFile := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(planFile, []byte("{not json"), 0600); err != nil {
		t.Fatalf("Failed to write plan file: %v", err)
	}

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"plan", "set", "2026-03-02", planFile})
	err := rootCmd.Execute()

	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestPlanSetCmdFileNotFound(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"plan", "set", "2026-03-02", "/nonexistent/plan.json"})
	err := rootCmd.Execute()

	if err == nil {
		t.Error("Expected error for missing plan file")
	}
}

func TestPlanShowCmdWithDB(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	plan := cliTestPlan()
	plan.Location = "Gym"
	plan.TotalDurationMin = models.Int(45)
	if _, err := testDB.SavePlan("2026-03-02", plan, "test"); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	rootCmd.SetArgs([]string{"plan", "show", "2026-03-02"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("plan show command failed: %v", err)
	}
}

func TestPlanShowCmdNotFound(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"plan", "show", "2026-03-02"})
	err := rootCmd.Execute()

	if err == nil {
		t.Error("Expected error for missing plan")
	}
}

func TestPlanListCmdWithDB(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	planStart = ""
	planEnd = ""

	today := time.Now().Format(models.DateFormat)
	nextWeek := time.Now().AddDate(0, 0, 7).Format(models.DateFormat)
	if _, err := testDB.SavePlan(today, cliTestPlan(), "test"); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if _, err := testDB.SavePlan(nextWeek, cliTestPlan(), "test"); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	rootCmd.SetArgs([]string{"plan", "list"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("plan list command failed: %v", err)
	}
}

func TestPlanListCmdEmptyDB(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	planStart = ""
	planEnd = ""

	rootCmd.SetArgs([]string{"plan", "list"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("plan list command on empty DB failed: %v", err)
	}
}

func TestPlanListCmdExplicitRange(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	planStart = ""
	planEnd = ""

	if _, err := testDB.SavePlan("2026-03-02", cliTestPlan(), "test"); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	rootCmd.SetArgs([]string{"plan", "list", "--start", "2026-03-01", "--end", "2026-03-31"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("plan list command with range failed: %v", err)
	}
}

func TestPlanDeleteCmdWithDB(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	if _, err := testDB.SavePlan("2026-03-02", cliTestPlan(), "test"); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	rootCmd.SetArgs([]string{"plan", "delete", "2026-03-02"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("plan delete command failed: %v", err)
	}

	// Verify plan was deleted
	_, err = testDB.GetPlan("2026-03-02")
	if !models.IsNotFound(err) {
		t.Errorf("Expected plan to be deleted, got err = %v", err)
	}
}

func TestPlanDeleteCmdNotFound(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"plan", "delete", "2026-03-02"})
	err := rootCmd.Execute()

	if err == nil {
		t.Error("Expected error for deleting missing plan")
	}
}

func TestLogsShowCmdWithDB(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	if _, err := testDB.SavePlan("2026-03-02", cliTestPlan(), "test"); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := testDB.SaveLog("2026-03-02", cliTestLog(), "test", storage.UTCNow()); err != nil {
		t.Fatalf("SaveLog failed: %v", err)
	}

	rootCmd.SetArgs([]string{"logs", "show", "2026-03-02"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("logs show command failed: %v", err)
	}
}

func TestLogsShowCmdNotFound(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"logs", "show", "2026-03-02"})
	err := rootCmd.Execute()

	if err == nil {
		t.Error("Expected error for missing log")
	}
}

func TestLogsListCmdWithDB(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	logsDays = 30

	today := time.Now().Format(models.DateFormat)
	if err := testDB.SaveLog(today, cliTestLog(), "test", storage.UTCNow()); err != nil {
		t.Fatalf("SaveLog failed: %v", err)
	}

	rootCmd.SetArgs([]string{"logs", "list"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("logs list command failed: %v", err)
	}
}

func TestLogsListCmdEmptyDB(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	logsDays = 30

	rootCmd.SetArgs([]string{"logs", "list"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("logs list command on empty DB failed: %v", err)
	}
}

func TestSummaryCmdWithDB(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	summaryDays = 30

	today := time.Now().Format(models.DateFormat)
	if _, err := testDB.SavePlan(today, cliTestPlan(), "test"); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := testDB.SaveLog(today, cliTestLog(), "test", storage.UTCNow()); err != nil {
		t.Fatalf("SaveLog failed: %v", err)
	}

	rootCmd.SetArgs([]string{"summary"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("summary command failed: %v", err)
	}
}

func TestSummaryCmdTooManyDays(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	summaryDays = 30

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"summary", "--days", "400"})
	err := rootCmd.Execute()

	if err == nil {
		t.Error("Expected error for days over 365")
	}
}

func TestSeedCmdWithDB(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	rootCmd.SetArgs([]string{"seed"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("seed command failed: %v", err)
	}

	plans, err := testDB.PlansChangedSince("")
	if err != nil {
		t.Fatalf("PlansChangedSince failed: %v", err)
	}
	if len(plans) != 3 {
		t.Errorf("Expected 3 seeded plans, got %d", len(plans))
	}

	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateFormat)
	stored, err := testDB.GetLog(yesterday)
	if err != nil {
		t.Fatalf("GetLog failed: %v", err)
	}
	if stored.SessionID == nil {
		t.Error("Expected seeded log to link to its plan session")
	}
}

func TestExportJSONCmdToFile(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	exportOutput = ""
	exportSince = ""

	if _, err := testDB.SavePlan("2026-03-02", cliTestPlan(), "test"); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "export.json")

	rootCmd.SetArgs([]string{"export", "json", "--output", tmpFile})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("export json command failed: %v", err)
	}

	data, err := os.ReadFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}

	var export storage.ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse export file: %v", err)
	}
	if len(export.Plans) != 1 {
		t.Errorf("Expected 1 exported plan, got %d", len(export.Plans))
	}
	if export.Plans[0].Date != "2026-03-02" {
		t.Errorf("Expected exported date 2026-03-02, got %q", export.Plans[0].Date)
	}
}

func TestExportYAMLCmdWithDB(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	exportOutput = ""
	exportSince = ""

	if _, err := testDB.SavePlan("2026-03-02", cliTestPlan(), "test"); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	rootCmd.SetArgs([]string{"export", "yaml"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("export yaml command failed: %v", err)
	}
}

func TestExportMarkdownCmdWithDB(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	exportOutput = ""
	exportSince = ""

	if _, err := testDB.SavePlan("2026-03-02", cliTestPlan(), "test"); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	rootCmd.SetArgs([]string{"export", "markdown"})
	err := rootCmd.Execute()

	if err != nil {
		t.Errorf("export markdown command failed: %v", err)
	}
}

func TestExportMarkdownCmdInvalidSince(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	exportOutput = ""
	exportSince = ""

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"export", "markdown", "--since", "not-a-date"})
	err := rootCmd.Execute()

	if err == nil {
		t.Error("Expected error for invalid since date")
	}
}

func TestExportInvalidFormat(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	exportOutput = ""
	exportSince = ""

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"export", "csv"})
	err := rootCmd.Execute()

	if err == nil {
		t.Error("Expected error for invalid export format")
	}
}

func TestImportCmdRoundTrip(t *testing.T) {
	testDB, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	exportOutput = ""
	exportSince = ""

	if _, err := testDB.SavePlan("2026-03-02", cliTestPlan(), "test"); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "export.json")

	rootCmd.SetArgs([]string{"export", "json", "--output", tmpFile})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	if err := testDB.DeletePlan("2026-03-02"); err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}

	rootCmd.SetArgs([]string{"import", tmpFile})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("import command failed: %v", err)
	}

	// Verify the deleted plan came back
	stored, err := testDB.GetPlan("2026-03-02")
	if err != nil {
		t.Fatalf("GetPlan after import failed: %v", err)
	}
	if stored.Plan.DayName != "Push Day" {
		t.Errorf("Expected imported day_name 'Push Day', got %q", stored.Plan.DayName)
	}
}

func TestImportCmdFileNotFound(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"import", "/nonexistent/export.json"})
	err := rootCmd.Execute()

	if err == nil {
		t.Error("Expected error for missing import file")
	}
}

func TestMigrateCmdNoLegacyData(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	migrateDryRun = false

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"migrate"})
	err := rootCmd.Execute()

	if err == nil {
		t.Error("Expected error when no legacy tables exist")
	}
}

func TestDBFlagOverride(t *testing.T) {
	_, cleanup := setupTestCLI(t)
	defer cleanup()

	// Reset global flags
	planStart = ""
	planEnd = ""

	altPath := filepath.Join(t.TempDir(), "alt.db")

	rootCmd.SetArgs([]string{"plan", "list", "--db", altPath})
	err := rootCmd.Execute()
	dbPath = ""

	if err != nil {
		t.Errorf("plan list with --db failed: %v", err)
	}

	if _, err := os.Stat(altPath); os.IsNotExist(err) {
		t.Error("Expected database file at --db path")
	}
}
