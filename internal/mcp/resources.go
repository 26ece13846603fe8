// ABOUTME: MCP resources: the plan authoring guide plus schedule and summary views.
// ABOUTME: Provides coach://plan-guide, coach://schedule, and coach://summary.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/coach/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// coach://plan-guide - How to author block-based workout plans
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "coach://plan-guide",
		Name:        "Workout Plan Guide",
		Description: "Complete guide to creating block-based workout plans",
		MIMEType:    "text/markdown",
	}, s.handlePlanGuideResource)

	// coach://schedule - Dates with plans over the next six weeks
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "coach://schedule",
		Name:        "Upcoming Schedule",
		Description: "Dates with workout plans from today through six weeks out",
		MIMEType:    "application/json",
	}, s.handleScheduleResource)

	// coach://summary - 30-day plan/log overview
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "coach://summary",
		Name:        "Workout Summary",
		Description: "Planned vs completed workouts over the last 30 days",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handlePlanGuideResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "coach://plan-guide",
			MIMEType: "text/markdown",
			Text:     planGuide,
		}},
	}, nil
}

func (s *Server) handleScheduleResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	start := time.Now().Format(models.DateFormat)
	end := time.Now().AddDate(0, 0, 42).Format(models.DateFormat)

	dates, err := s.store.ListPlanDates(start, end)
	if err != nil {
		return nil, fmt.Errorf("list scheduled dates: %w", err)
	}
	if dates == nil {
		dates = []string{}
	}

	result := map[string]any{
		"start_date":      start,
		"end_date":        end,
		"scheduled_dates": dates,
		"count":           len(dates),
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "coach://schedule",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	summary, err := s.store.GetSummary(30)
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "coach://summary",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

const planGuide = `# Coach Workout Plan Guide

## Quick Start
1. Use ` + "`list_scheduled_dates`" + ` to see what's already planned
2. Use ` + "`get_workout_plan`" + ` to see existing plan structures
3. Use ` + "`set_workout_plan`" + ` to create new plans (block format required)
4. Use ` + "`get_workout_logs`" + ` to analyze past performance

## Plan Structure

Each workout plan uses block-based format:
- ` + "`blocks`" + `: Array of typed groups (warmup, strength, cardio, circuit, accessory, power)
- Each block contains exercises appropriate to its type

## Block Types

### warmup
Exercises are aggregated into a single checklist.

### strength / accessory
Individual exercises with sets/reps.

### circuit / power
Exercises with rounds (from block-level ` + "`rounds`" + ` field).

### cardio
Can use ` + "`instructions`" + ` array or ` + "`exercises`" + ` list.

## Exercise Types

### strength
` + "```json" + `
{"id": "ex_1", "name": "KB Goblet Squat", "type": "strength",
 "target_sets": 3, "target_reps": "10", "guidance_note": "Tempo 3-1-1"}
` + "```" + `

### duration
` + "```json" + `
{"id": "cardio_1", "name": "Zone 2 Bike", "type": "duration",
 "target_duration_min": 15, "guidance_note": "HR 135-148"}
` + "```" + `

### checklist
` + "```json" + `
{"id": "warmup_0", "name": "Stability Start", "type": "checklist",
 "items": ["Cat-Cow x10", "Bird-Dog x5/side"]}
` + "```" + `

### weighted_time
` + "```json" + `
{"id": "ex_5", "name": "Farmer's Carry", "type": "weighted_time",
 "target_duration_sec": 60}
` + "```" + `

### interval
` + "```json" + `
{"id": "hiit_1", "name": "Bike Intervals", "type": "interval",
 "rounds": 4, "work_duration_sec": 30, "rest_duration_sec": 90}
` + "```" + `

## Example: Block-Based Plan

` + "```json" + `
{
    "day_name": "Lower Body + Conditioning",
    "location": "Home",
    "phase": "Foundation",
    "blocks": [
        {
            "block_type": "warmup",
            "title": "Stability Start",
            "exercises": [
                {"id": "warmup_0", "name": "Stability Start", "type": "checklist",
                 "items": ["Cat-Cow x10", "Bird-Dog x5/side", "Dead Bug x10"]}
            ]
        },
        {
            "block_type": "strength",
            "title": "Main Lifts",
            "rest_guidance": "Rest until HR <= 130",
            "exercises": [
                {"id": "ex_1", "name": "KB Goblet Squat", "type": "strength",
                 "target_sets": 3, "target_reps": "10", "guidance_note": "Tempo 3-1-1"},
                {"id": "ex_2", "name": "DB Romanian Deadlift", "type": "strength",
                 "target_sets": 3, "target_reps": "10"}
            ]
        },
        {
            "block_type": "cardio",
            "title": "Zone 2 Cooldown",
            "exercises": [
                {"id": "cardio_1", "name": "Zone 2 Bike", "type": "duration",
                 "target_duration_min": 15, "guidance_note": "HR 135-148"}
            ]
        }
    ]
}
` + "```" + `

## Best Practices

1. **Block grouping**: Group exercises by type (warmup, strength, cardio)
2. **Unique IDs**: Each exercise needs a unique ` + "`id`" + ` within the plan
3. **Guidance Notes**: Include tempo, rest periods, HR targets
4. **Progressive Overload**: Increase volume/intensity across phases
`
