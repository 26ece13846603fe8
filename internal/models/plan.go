// ABOUTME: PlanDocument, Block, and Exercise types for structured workout plans.
// ABOUTME: Defines block/exercise type enums and the sparse JSON document shape.
package models

import (
	"encoding/json"
	"fmt"
)

// DateFormat is the canonical calendar-date layout used throughout.
const DateFormat = "2006-01-02"

// BlockType categorizes a section of a workout session.
type BlockType string

const (
	BlockWarmup    BlockType = "warmup"
	BlockStrength  BlockType = "strength"
	BlockCardio    BlockType = "cardio"
	BlockCircuit   BlockType = "circuit"
	BlockAccessory BlockType = "accessory"
	BlockPower     BlockType = "power"
)

// AllBlockTypes returns all valid block types.
var AllBlockTypes = []BlockType{
	BlockWarmup, BlockStrength, BlockCardio,
	BlockCircuit, BlockAccessory, BlockPower,
}

// IsValidBlockType checks if a string is a valid block type.
func IsValidBlockType(s string) bool {
	for _, bt := range AllBlockTypes {
		if string(bt) == s {
			return true
		}
	}
	return false
}

// ExerciseType describes how an exercise is performed and logged.
type ExerciseType string

const (
	ExerciseStrength     ExerciseType = "strength"
	ExerciseDuration     ExerciseType = "duration"
	ExerciseChecklist    ExerciseType = "checklist"
	ExerciseWeightedTime ExerciseType = "weighted_time"
	ExerciseInterval     ExerciseType = "interval"
	ExerciseCircuit      ExerciseType = "circuit"
)

// AllExerciseTypes returns all valid exercise types.
var AllExerciseTypes = []ExerciseType{
	ExerciseStrength, ExerciseDuration, ExerciseChecklist,
	ExerciseWeightedTime, ExerciseInterval, ExerciseCircuit,
}

// IsValidExerciseType checks if a string is a valid exercise type.
func IsValidExerciseType(s string) bool {
	for _, et := range AllExerciseTypes {
		if string(et) == s {
			return true
		}
	}
	return false
}

// PlanDocument is a full workout plan for one calendar date. Optional
// fields are omitted from JSON when empty; day_name and blocks are always
// present on assembled documents.
type PlanDocument struct {
	DayName          string  `json:"day_name"`
	Location         string  `json:"location,omitempty"`
	Phase            string  `json:"phase,omitempty"`
	TotalDurationMin *int    `json:"total_duration_min,omitempty"`
	Blocks           []Block `json:"blocks"`

	// ServerModified carries the server-side last_modified timestamp and
	// is only populated on documents returned by sync pulls.
	ServerModified string `json:"_lastModified,omitempty"`
}

// Block is one section of a plan, holding exercises in order.
type Block struct {
	BlockIndex   *int       `json:"block_index,omitempty"`
	BlockType    BlockType  `json:"block_type,omitempty"`
	Title        string     `json:"title,omitempty"`
	DurationMin  *int       `json:"duration_min,omitempty"`
	RestGuidance string     `json:"rest_guidance,omitempty"`
	Rounds       *int       `json:"rounds,omitempty"`
	Exercises    []Exercise `json:"exercises,omitempty"`
}

// Exercise is one planned movement. ID, Name, and Type are required on
// validated documents; everything else is optional and emitted sparsely.
type Exercise struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Type              ExerciseType   `json:"type"`
	TargetSets        *int           `json:"target_sets,omitempty"`
	TargetReps        FlexString     `json:"target_reps,omitempty"`
	TargetDurationMin *int           `json:"target_duration_min,omitempty"`
	TargetDurationSec *int           `json:"target_duration_sec,omitempty"`
	Rounds            *int           `json:"rounds,omitempty"`
	WorkDurationSec   *int           `json:"work_duration_sec,omitempty"`
	RestDurationSec   *int           `json:"rest_duration_sec,omitempty"`
	GuidanceNote      string         `json:"guidance_note,omitempty"`
	HideWeight        bool           `json:"hide_weight,omitempty"`
	ShowTime          bool           `json:"show_time,omitempty"`
	Items             []string       `json:"items,omitempty"`
	Extra             map[string]any `json:"extra,omitempty"`
}

// FlexString is a string that also accepts JSON numbers when decoding,
// since model-generated documents write rep targets both ways.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// Int returns a pointer to v, for optional numeric document fields.
func Int(v int) *int { return &v }

// Float64 returns a pointer to v, for optional numeric document fields.
func Float64(v float64) *float64 { return &v }
