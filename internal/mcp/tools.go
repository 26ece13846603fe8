// ABOUTME: MCP tool registration and read-side handlers for workout plans.
// ABOUTME: Reads assemble documents straight from the relational store.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// get_workout_plan
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout_plan",
		Description: "Get workout plans for a date range, with blocks and exercises",
	}, s.handleGetWorkoutPlan)

	// get_workout_logs
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout_logs",
		Description: "Get completed workout logs for a date range (read-only)",
	}, s.handleGetWorkoutLogs)

	// set_workout_plan
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_workout_plan",
		Description: "Create or replace the workout plan for a date (block format, raw or pre-transformed)",
	}, s.handleSetWorkoutPlan)

	// get_workout_summary
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout_summary",
		Description: "Summary statistics for recent plans and completed logs",
	}, s.handleGetWorkoutSummary)

	// list_scheduled_dates
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_scheduled_dates",
		Description: "List dates that have workout plans scheduled",
	}, s.handleListScheduledDates)

	// ingest_training_program
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ingest_training_program",
		Description: "Bulk ingest multiple workout plans keyed by date",
	}, s.handleIngestTrainingProgram)

	// update_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_exercise",
		Description: "Update fields of one exercise within an existing plan",
	}, s.handleUpdateExercise)

	// add_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add a new exercise to a block in an existing plan",
	}, s.handleAddExercise)

	// remove_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_exercise",
		Description: "Remove an exercise from a plan by ID",
	}, s.handleRemoveExercise)

	// delete_workout_plan
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout_plan",
		Description: "Delete the entire workout plan for a date",
	}, s.handleDeleteWorkoutPlan)

	// update_plan_metadata
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_plan_metadata",
		Description: "Update plan-level fields (day_name, location, phase, total_duration_min)",
	}, s.handleUpdatePlanMetadata)
}

// Read tool input/output types

type dateRangeInput struct {
	StartDate string `json:"start_date" jsonschema:"Start date (YYYY-MM-DD)"`
	EndDate   string `json:"end_date" jsonschema:"End date (YYYY-MM-DD)"`
}

type planEntry struct {
	Date         string               `json:"date"`
	LastModified string               `json:"last_modified"`
	Plan         *models.PlanDocument `json:"plan"`
}

type logEntry struct {
	Date         string              `json:"date"`
	LastModified string              `json:"last_modified"`
	Log          *models.LogDocument `json:"log"`
}

type summaryInput struct {
	Days int `json:"days,omitempty" jsonschema:"Number of recent days to analyze (max 365; default 30)"`
}

type listDatesInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"Start date (YYYY-MM-DD); defaults to today"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"End date (YYYY-MM-DD); defaults to 6 weeks from today"`
}

// Read tool handlers

func (s *Server) handleGetWorkoutPlan(ctx context.Context, req *mcp.CallToolRequest, input dateRangeInput) (*mcp.CallToolResult, []planEntry, error) {
	plans, err := s.store.ListPlans(input.StartDate, input.EndDate)
	if err != nil {
		return nil, nil, fmt.Errorf("get workout plans: %w", err)
	}

	entries := make([]planEntry, 0, len(plans))
	for _, p := range plans {
		entries = append(entries, planEntry{
			Date:         p.Date,
			LastModified: p.LastModified,
			Plan:         p.Plan,
		})
	}
	return nil, entries, nil
}

func (s *Server) handleGetWorkoutLogs(ctx context.Context, req *mcp.CallToolRequest, input dateRangeInput) (*mcp.CallToolResult, []logEntry, error) {
	logs, err := s.store.ListLogs(input.StartDate, input.EndDate)
	if err != nil {
		return nil, nil, fmt.Errorf("get workout logs: %w", err)
	}

	entries := make([]logEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, logEntry{
			Date:         l.Date,
			LastModified: l.LastModified,
			Log:          l.Log,
		})
	}
	return nil, entries, nil
}

func (s *Server) handleGetWorkoutSummary(ctx context.Context, req *mcp.CallToolRequest, input summaryInput) (*mcp.CallToolResult, *storage.Summary, error) {
	summary, err := s.store.GetSummary(input.Days)
	if err != nil {
		return nil, nil, err
	}
	return nil, summary, nil
}

func (s *Server) handleListScheduledDates(ctx context.Context, req *mcp.CallToolRequest, input listDatesInput) (*mcp.CallToolResult, []string, error) {
	start := input.StartDate
	if start == "" {
		start = time.Now().Format(models.DateFormat)
	}
	end := input.EndDate
	if end == "" {
		end = time.Now().AddDate(0, 0, 42).Format(models.DateFormat)
	}

	dates, err := s.store.ListPlanDates(start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("list scheduled dates: %w", err)
	}
	if dates == nil {
		dates = []string{}
	}
	return nil, dates, nil
}
