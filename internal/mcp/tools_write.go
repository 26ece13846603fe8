// ABOUTME: MCP mutation handlers: set/ingest plans, exercise edits, metadata.
// ABOUTME: All writes stamp modified_by "mcp" and touch the owning session.
package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
	"github.com/harperreed/coach/internal/transform"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const modifiedByMCP = "mcp"

// Write tool input/output types

type setPlanInput struct {
	Date string             `json:"date" jsonschema:"Target date (YYYY-MM-DD)"`
	Plan *transform.RawPlan `json:"plan" jsonschema:"Plan object with a blocks array; raw LLM format or pre-transformed"`
}

type setPlanOutput struct {
	Success      bool                 `json:"success"`
	Date         string               `json:"date"`
	LastModified string               `json:"last_modified"`
	Plan         *models.PlanDocument `json:"plan"`
	Message      string               `json:"message"`
}

type ingestInput struct {
	Plans           map[string]*transform.RawPlan `json:"plans" jsonschema:"Map of date (YYYY-MM-DD) to plan object with blocks"`
	TransformBlocks *bool                         `json:"transform_blocks,omitempty" jsonschema:"Transform raw LLM block format when needed (default true)"`
}

type ingestFailure struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

type ingestOutput struct {
	Message      string          `json:"message"`
	SuccessCount int             `json:"success_count"`
	FailedCount  int             `json:"failed_count"`
	SuccessDates []string        `json:"success_dates"`
	Failed       []ingestFailure `json:"failed"`
}

type updateExerciseInput struct {
	Date       string                  `json:"date" jsonschema:"Date of the plan (YYYY-MM-DD)"`
	ExerciseID string                  `json:"exercise_id" jsonschema:"Exercise key (e.g. ex_1 or warmup_0)"`
	Updates    *storage.ExerciseUpdate `json:"updates" jsonschema:"Fields to update (name, type, target_sets, target_reps, items, ...)"`
}

type updateExerciseOutput struct {
	Success         bool             `json:"success"`
	Date            string           `json:"date"`
	ExerciseID      string           `json:"exercise_id"`
	UpdatedExercise *models.Exercise `json:"updated_exercise"`
	Message         string           `json:"message"`
}

type addExerciseInput struct {
	Date          string           `json:"date" jsonschema:"Date of the plan (YYYY-MM-DD)"`
	Exercise      *models.Exercise `json:"exercise" jsonschema:"Exercise object with id, name, and type"`
	BlockPosition int              `json:"block_position,omitempty" jsonschema:"Which block to add to (0-indexed; default 0)"`
	Position      *int             `json:"position,omitempty" jsonschema:"Index within the block; omitted appends to the end"`
}

type addExerciseOutput struct {
	Success        bool             `json:"success"`
	Date           string           `json:"date"`
	AddedExercise  *models.Exercise `json:"added_exercise"`
	TotalExercises int              `json:"total_exercises"`
	Message        string           `json:"message"`
}

type removeExerciseInput struct {
	Date       string `json:"date" jsonschema:"Date of the plan (YYYY-MM-DD)"`
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise key to remove"`
}

type removeExerciseOutput struct {
	Success            bool   `json:"success"`
	Date               string `json:"date"`
	RemovedExerciseID  string `json:"removed_exercise_id"`
	RemainingExercises int    `json:"remaining_exercises"`
	Message            string `json:"message"`
}

type deletePlanInput struct {
	Date string `json:"date" jsonschema:"Date of the plan to delete (YYYY-MM-DD)"`
}

type deletePlanOutput struct {
	Success bool   `json:"success"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

type planMetadataInput struct {
	Date    string         `json:"date" jsonschema:"Date of the plan (YYYY-MM-DD)"`
	Updates map[string]any `json:"updates" jsonschema:"Fields to update: day_name, location, phase, total_duration_min"`
}

type planMetadataOutput struct {
	Success       bool           `json:"success"`
	Date          string         `json:"date"`
	UpdatedFields []string       `json:"updated_fields"`
	PlanMetadata  map[string]any `json:"plan_metadata"`
	Message       string         `json:"message"`
}

// Write tool handlers

func (s *Server) handleSetWorkoutPlan(ctx context.Context, req *mcp.CallToolRequest, input setPlanInput) (*mcp.CallToolResult, setPlanOutput, error) {
	if err := models.ValidateDate(input.Date); err != nil {
		return nil, setPlanOutput{}, err
	}
	if input.Plan == nil {
		return nil, setPlanOutput{}, models.Validationf("plan must have blocks")
	}

	doc, err := transform.Normalize(input.Plan)
	if err != nil {
		return nil, setPlanOutput{}, err
	}

	if _, err := s.store.SavePlan(input.Date, doc, modifiedByMCP); err != nil {
		return nil, setPlanOutput{}, err
	}

	stored, err := s.store.GetPlan(input.Date)
	if err != nil {
		return nil, setPlanOutput{}, err
	}

	return nil, setPlanOutput{
		Success:      true,
		Date:         input.Date,
		LastModified: stored.LastModified,
		Plan:         stored.Plan,
		Message:      fmt.Sprintf("Workout plan for %s saved successfully", input.Date),
	}, nil
}

// handleIngestTrainingProgram applies set-plan semantics per date, in
// ascending date order, continuing past individual failures. Its checks are
// looser than set_workout_plan: blocks must exist and hold at least one
// exercise after transformation, but block and exercise fields are stored
// as given.
func (s *Server) handleIngestTrainingProgram(ctx context.Context, req *mcp.CallToolRequest, input ingestInput) (*mcp.CallToolResult, ingestOutput, error) {
	doTransform := input.TransformBlocks == nil || *input.TransformBlocks

	dates := make([]string, 0, len(input.Plans))
	for date := range input.Plans {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	out := ingestOutput{
		SuccessDates: []string{},
		Failed:       []ingestFailure{},
	}
	for _, date := range dates {
		if err := s.ingestOnePlan(date, input.Plans[date], doTransform); err != nil {
			out.Failed = append(out.Failed, ingestFailure{Date: date, Error: err.Error()})
			continue
		}
		out.SuccessDates = append(out.SuccessDates, date)
	}

	out.SuccessCount = len(out.SuccessDates)
	out.FailedCount = len(out.Failed)
	out.Message = fmt.Sprintf("Ingested %d of %d plans", out.SuccessCount, len(input.Plans))
	return nil, out, nil
}

func (s *Server) ingestOnePlan(date string, raw *transform.RawPlan, doTransform bool) error {
	if err := models.ValidateDate(date); err != nil {
		return err
	}
	if raw == nil {
		return models.Validationf("plan must have blocks")
	}

	var doc *models.PlanDocument
	if doTransform && len(raw.Blocks) > 0 && transform.NeedsTransform(raw) {
		doc = transform.Transform(raw)
	} else {
		doc = transform.Passthrough(raw)
	}

	if len(doc.Blocks) == 0 {
		return models.Validationf("plan must have blocks")
	}
	hasExercises := false
	for _, b := range doc.Blocks {
		if len(b.Exercises) > 0 {
			hasExercises = true
			break
		}
	}
	if !hasExercises {
		return models.Validationf("plan must have exercises")
	}

	_, err := s.store.SavePlan(date, doc, modifiedByMCP)
	return err
}

func (s *Server) handleUpdateExercise(ctx context.Context, req *mcp.CallToolRequest, input updateExerciseInput) (*mcp.CallToolResult, updateExerciseOutput, error) {
	upd := input.Updates
	if upd == nil {
		upd = &storage.ExerciseUpdate{}
	}

	updated, err := s.store.UpdateExercise(input.Date, input.ExerciseID, upd, modifiedByMCP)
	if err != nil {
		return nil, updateExerciseOutput{}, err
	}

	return nil, updateExerciseOutput{
		Success:         true,
		Date:            input.Date,
		ExerciseID:      input.ExerciseID,
		UpdatedExercise: updated,
		Message:         fmt.Sprintf("Exercise %q updated successfully", input.ExerciseID),
	}, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, addExerciseOutput, error) {
	ex := input.Exercise
	if ex == nil || ex.ID == "" {
		return nil, addExerciseOutput{}, models.Validationf("exercise missing required field: id")
	}
	if ex.Name == "" {
		return nil, addExerciseOutput{}, models.Validationf("exercise missing required field: name")
	}
	if ex.Type == "" {
		return nil, addExerciseOutput{}, models.Validationf("exercise missing required field: type")
	}
	if !models.IsValidExerciseType(string(ex.Type)) {
		return nil, addExerciseOutput{}, models.Validationf("invalid exercise type: %s", ex.Type)
	}

	total, err := s.store.AddExercise(input.Date, ex, input.BlockPosition, input.Position, modifiedByMCP)
	if err != nil {
		return nil, addExerciseOutput{}, err
	}

	return nil, addExerciseOutput{
		Success:        true,
		Date:           input.Date,
		AddedExercise:  ex,
		TotalExercises: total,
		Message:        fmt.Sprintf("Exercise %q added successfully", ex.ID),
	}, nil
}

func (s *Server) handleRemoveExercise(ctx context.Context, req *mcp.CallToolRequest, input removeExerciseInput) (*mcp.CallToolResult, removeExerciseOutput, error) {
	remaining, err := s.store.RemoveExercise(input.Date, input.ExerciseID, modifiedByMCP)
	if err != nil {
		return nil, removeExerciseOutput{}, err
	}

	return nil, removeExerciseOutput{
		Success:            true,
		Date:               input.Date,
		RemovedExerciseID:  input.ExerciseID,
		RemainingExercises: remaining,
		Message:            fmt.Sprintf("Exercise %q removed successfully", input.ExerciseID),
	}, nil
}

func (s *Server) handleDeleteWorkoutPlan(ctx context.Context, req *mcp.CallToolRequest, input deletePlanInput) (*mcp.CallToolResult, deletePlanOutput, error) {
	if err := models.ValidateDate(input.Date); err != nil {
		return nil, deletePlanOutput{}, err
	}
	if err := s.store.DeletePlan(input.Date); err != nil {
		return nil, deletePlanOutput{}, err
	}

	return nil, deletePlanOutput{
		Success: true,
		Date:    input.Date,
		Message: fmt.Sprintf("Workout plan for %s deleted successfully", input.Date),
	}, nil
}

// metadataColumns are the plan-level fields update_plan_metadata accepts.
var metadataColumns = []string{"day_name", "location", "phase", "total_duration_min"}

func (s *Server) handleUpdatePlanMetadata(ctx context.Context, req *mcp.CallToolRequest, input planMetadataInput) (*mcp.CallToolResult, planMetadataOutput, error) {
	upd, fields, err := parseMetadataUpdates(input.Updates)
	if err != nil {
		return nil, planMetadataOutput{}, err
	}

	stored, exerciseCount, err := s.store.UpdatePlanMetadata(input.Date, upd, modifiedByMCP)
	if err != nil {
		return nil, planMetadataOutput{}, err
	}

	return nil, planMetadataOutput{
		Success:       true,
		Date:          input.Date,
		UpdatedFields: fields,
		PlanMetadata: map[string]any{
			"day_name":           stored.Plan.DayName,
			"location":           stored.Plan.Location,
			"phase":              stored.Plan.Phase,
			"total_duration_min": stored.Plan.TotalDurationMin,
			"exercise_count":     exerciseCount,
		},
		Message: "Plan metadata updated successfully",
	}, nil
}

// parseMetadataUpdates rejects unknown keys before anything is written,
// then maps the surviving values onto a typed update.
func parseMetadataUpdates(updates map[string]any) (*storage.PlanMetadataUpdate, []string, error) {
	var invalid []string
	for key := range updates {
		known := false
		for _, col := range metadataColumns {
			if key == col {
				known = true
				break
			}
		}
		if !known {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, nil, models.Validationf("invalid metadata fields: %s (allowed: %s)",
			strings.Join(invalid, ", "), strings.Join(metadataColumns, ", "))
	}

	upd := &storage.PlanMetadataUpdate{}
	fields := make([]string, 0, len(updates))
	for key, value := range updates {
		fields = append(fields, key)
		switch key {
		case "day_name", "location", "phase":
			str, ok := value.(string)
			if !ok {
				return nil, nil, models.Validationf("%s must be a string", key)
			}
			switch key {
			case "day_name":
				upd.DayName = &str
			case "location":
				upd.Location = &str
			case "phase":
				upd.Phase = &str
			}
		case "total_duration_min":
			num, ok := value.(float64)
			if !ok {
				return nil, nil, models.Validationf("total_duration_min must be a number")
			}
			upd.TotalDurationMin = models.Int(int(num))
		}
	}
	sort.Strings(fields)
	return upd, fields, nil
}
