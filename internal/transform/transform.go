// ABOUTME: Normalizes raw model-authored workout plans into strict documents.
// ABOUTME: Validates structure, expands shorthand blocks, and enforces exercise fields.

package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/harperreed/coach/internal/models"
)

// RawPlan is the loose shape a coaching model writes. Shorthand fields
// (theme, per-exercise sets/reps, block instructions) are expanded by
// Transform; already-strict documents pass through unchanged.
type RawPlan struct {
	DayName          string     `json:"day_name"`
	Theme            string     `json:"theme"`
	Location         string     `json:"location"`
	Phase            string     `json:"phase"`
	TotalDurationMin *int       `json:"total_duration_min"`
	Blocks           []RawBlock `json:"blocks"`
}

// RawBlock is one section of a raw plan. Exercises and Instructions are
// pointers because their presence, even empty, decides which expansion
// branch applies.
type RawBlock struct {
	BlockIndex   *int           `json:"block_index"`
	BlockType    *string        `json:"block_type"`
	Title        string         `json:"title"`
	DurationMin  *int           `json:"duration_min"`
	RestGuidance string         `json:"rest_guidance"`
	Rounds       *int           `json:"rounds"`
	Exercises    *[]RawExercise `json:"exercises"`
	Instructions *[]string      `json:"instructions"`
}

// RawExercise carries both the shorthand fields models write and the
// strict schema fields, so strict documents survive a round-trip.
type RawExercise struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
	Type *string `json:"type"`

	// Shorthand fields. Sets and Reps accept any scalar; models write
	// them as numbers and as strings like "6-8" or "30 sec".
	Sets      any               `json:"sets"`
	Reps      any               `json:"reps"`
	Tempo     models.FlexString `json:"tempo"`
	LoadGuide string            `json:"load_guide"`
	Notes     string            `json:"notes"`
	Equipment string            `json:"equipment"`

	// Strict schema fields.
	TargetSets        *int              `json:"target_sets"`
	TargetReps        models.FlexString `json:"target_reps"`
	TargetDurationMin *int              `json:"target_duration_min"`
	TargetDurationSec *int              `json:"target_duration_sec"`
	Rounds            *int              `json:"rounds"`
	WorkDurationSec   *int              `json:"work_duration_sec"`
	RestDurationSec   *int              `json:"rest_duration_sec"`
	GuidanceNote      string            `json:"guidance_note"`
	HideWeight        bool              `json:"hide_weight"`
	ShowTime          bool              `json:"show_time"`
	Items             []string          `json:"items"`
	Extra             map[string]any    `json:"extra"`
}

// Normalize validates a raw plan, expands it when it carries shorthand,
// and returns a strict document ready for storage. Validation errors
// name the offending block or exercise index.
func Normalize(raw *RawPlan) (*models.PlanDocument, error) {
	if err := validateBlocks(raw); err != nil {
		return nil, err
	}

	var doc *models.PlanDocument
	if NeedsTransform(raw) {
		doc = Transform(raw)
	} else {
		doc = Passthrough(raw)
	}

	if err := validateExercises(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// NeedsTransform reports whether any exercise lacks an id or type, or
// any block carries instructions without an exercises list.
func NeedsTransform(raw *RawPlan) bool {
	for _, b := range raw.Blocks {
		if b.Exercises != nil {
			for _, ex := range *b.Exercises {
				if ex.ID == nil || ex.Type == nil {
					return true
				}
			}
		}
		if b.Instructions != nil && b.Exercises == nil {
			return true
		}
	}
	return false
}

// Transform expands a shorthand plan into a strict document: warmup
// blocks collapse into one checklist, exercise blocks map their
// shorthand onto target fields, and instruction-only blocks become a
// single cardio exercise.
func Transform(raw *RawPlan) *models.PlanDocument {
	blocks := make([]models.Block, 0, len(raw.Blocks))
	for i, b := range raw.Blocks {
		blocks = append(blocks, models.Block{
			BlockIndex:   models.Int(i),
			BlockType:    blockTypeOf(b),
			Title:        b.Title,
			DurationMin:  b.DurationMin,
			RestGuidance: b.RestGuidance,
			Rounds:       b.Rounds,
			Exercises:    transformBlock(b, i),
		})
	}

	dayName := raw.Theme
	if dayName == "" {
		dayName = raw.DayName
	}
	if dayName == "" {
		dayName = "Workout"
	}
	location := raw.Location
	if location == "" {
		location = "Home"
	}
	phase := raw.Phase
	if phase == "" {
		phase = "Foundation"
	}
	duration := raw.TotalDurationMin
	if duration == nil {
		duration = models.Int(60)
	}

	return &models.PlanDocument{
		DayName:          dayName,
		Location:         location,
		Phase:            phase,
		TotalDurationMin: duration,
		Blocks:           blocks,
	}
}

// Passthrough maps an already-strict raw plan onto the document type
// without expansion. A missing day_name is backfilled from the theme.
func Passthrough(raw *RawPlan) *models.PlanDocument {
	blocks := make([]models.Block, 0, len(raw.Blocks))
	for _, b := range raw.Blocks {
		mb := models.Block{
			BlockIndex:   b.BlockIndex,
			BlockType:    blockTypeOf(b),
			Title:        b.Title,
			DurationMin:  b.DurationMin,
			RestGuidance: b.RestGuidance,
			Rounds:       b.Rounds,
		}
		if b.Exercises != nil {
			mb.Exercises = make([]models.Exercise, 0, len(*b.Exercises))
			for _, ex := range *b.Exercises {
				mb.Exercises = append(mb.Exercises, ex.strict())
			}
		}
		blocks = append(blocks, mb)
	}

	dayName := raw.DayName
	if dayName == "" {
		dayName = raw.Theme
	}
	if dayName == "" {
		dayName = "Workout"
	}

	return &models.PlanDocument{
		DayName:          dayName,
		Location:         raw.Location,
		Phase:            raw.Phase,
		TotalDurationMin: raw.TotalDurationMin,
		Blocks:           blocks,
	}
}

func validateBlocks(raw *RawPlan) error {
	if len(raw.Blocks) == 0 {
		return models.Validationf("plan must have blocks")
	}
	for i, b := range raw.Blocks {
		if b.BlockType == nil {
			return models.Validationf("block %d missing 'block_type' field", i)
		}
		if !models.IsValidBlockType(*b.BlockType) {
			return models.Validationf("block %d has invalid block_type: %s (must be one of %v)",
				i, *b.BlockType, models.AllBlockTypes)
		}
		if b.Exercises == nil && b.Instructions == nil {
			return models.Validationf("block %d must have either 'exercises' or 'instructions'", i)
		}
	}
	return nil
}

func validateExercises(doc *models.PlanDocument) error {
	for _, b := range doc.Blocks {
		for i, ex := range b.Exercises {
			if ex.ID == "" {
				return models.Validationf("exercise %d missing 'id' field", i)
			}
			if ex.Name == "" {
				return models.Validationf("exercise %d missing 'name' field", i)
			}
			if ex.Type == "" {
				return models.Validationf("exercise %d missing 'type' field", i)
			}
			if !models.IsValidExerciseType(string(ex.Type)) {
				return models.Validationf("exercise %d has invalid type: %s (must be one of %v)",
					i, ex.Type, models.AllExerciseTypes)
			}
		}
	}
	return nil
}

// transformBlock expands one raw block into its strict exercises.
func transformBlock(b RawBlock, blockIndex int) []models.Exercise {
	blockType := ""
	if b.BlockType != nil {
		blockType = *b.BlockType
	}

	switch {
	case blockType == "warmup" && b.Exercises != nil:
		// Warmups collapse into a single checklist: one item per movement.
		items := make([]string, 0, len(*b.Exercises))
		for _, ex := range *b.Exercises {
			name := rawName(ex)
			switch {
			case !truthy(ex.Reps):
				items = append(items, name)
			default:
				if n, ok := intValue(ex.Reps); ok {
					items = append(items, fmt.Sprintf("%s x%d", name, n))
				} else {
					items = append(items, name+" "+scalarString(ex.Reps))
				}
			}
		}
		title := b.Title
		if title == "" {
			title = "Warmup"
		}
		return []models.Exercise{{
			ID:    fmt.Sprintf("warmup_%d", blockIndex),
			Name:  title,
			Type:  models.ExerciseChecklist,
			Items: items,
		}}

	case b.Exercises != nil:
		out := make([]models.Exercise, 0, len(*b.Exercises))
		for i, ex := range *b.Exercises {
			exType := models.ExerciseStrength
			if blockType == "circuit" || blockType == "power" {
				exType = models.ExerciseCircuit
			}
			e := models.Exercise{
				ID:   fmt.Sprintf("%s_%d_%d", blockType, blockIndex, i+1),
				Name: rawName(ex),
				Type: exType,
			}

			if truthy(ex.Sets) {
				if n, ok := intValue(ex.Sets); ok {
					e.TargetSets = models.Int(n)
				} else {
					e.TargetSets = models.Int(3)
				}
			} else if b.Rounds != nil && *b.Rounds != 0 {
				e.TargetSets = b.Rounds
			}

			if truthy(ex.Reps) {
				reps := scalarString(ex.Reps)
				e.TargetReps = models.FlexString(reps)
				if strings.Contains(strings.ToLower(reps), "sec") {
					e.ShowTime = true
				}
			}

			if ex.Equipment != "" {
				if ex.Equipment == "bodyweight" || ex.Equipment == "band" {
					e.HideWeight = true
				}
			} else if isBodyweightOrBand(rawName(ex)) {
				e.HideWeight = true
			}

			var notes []string
			if ex.Tempo != "" {
				notes = append(notes, "Tempo "+string(ex.Tempo))
			}
			if ex.LoadGuide != "" {
				notes = append(notes, ex.LoadGuide)
			}
			if ex.Notes != "" {
				notes = append(notes, ex.Notes)
			}
			if b.RestGuidance != "" && blockType == "strength" {
				notes = append(notes, b.RestGuidance)
			}
			if len(notes) > 0 {
				e.GuidanceNote = strings.Join(notes, ". ")
			}

			out = append(out, e)
		}
		return out

	case b.Instructions != nil:
		text := strings.Join(*b.Instructions, " ")
		exType := models.ExerciseDuration
		name := b.Title
		if name == "" {
			name = "Zone 2 Cardio"
		}
		if strings.Contains(text, "VO2") || strings.Contains(text, "HARD") {
			exType = models.ExerciseInterval
			name = "VO2 Max Intervals"
		}
		duration := 0
		if b.DurationMin != nil {
			duration = *b.DurationMin
		}
		return []models.Exercise{{
			ID:                fmt.Sprintf("%s_%d_1", blockType, blockIndex),
			Name:              name,
			Type:              exType,
			TargetDurationMin: models.Int(duration),
			GuidanceNote:      strings.Join(*b.Instructions, " | "),
		}}
	}
	return nil
}

func (e RawExercise) strict() models.Exercise {
	var id, name, typ string
	if e.ID != nil {
		id = *e.ID
	}
	if e.Name != nil {
		name = *e.Name
	}
	if e.Type != nil {
		typ = *e.Type
	}
	return models.Exercise{
		ID:                id,
		Name:              name,
		Type:              models.ExerciseType(typ),
		TargetSets:        e.TargetSets,
		TargetReps:        e.TargetReps,
		TargetDurationMin: e.TargetDurationMin,
		TargetDurationSec: e.TargetDurationSec,
		Rounds:            e.Rounds,
		WorkDurationSec:   e.WorkDurationSec,
		RestDurationSec:   e.RestDurationSec,
		GuidanceNote:      e.GuidanceNote,
		HideWeight:        e.HideWeight,
		ShowTime:          e.ShowTime,
		Items:             e.Items,
		Extra:             e.Extra,
	}
}

func blockTypeOf(b RawBlock) models.BlockType {
	if b.BlockType == nil {
		return ""
	}
	return models.BlockType(*b.BlockType)
}

func rawName(e RawExercise) string {
	if e.Name != nil && *e.Name != "" {
		return *e.Name
	}
	return "Unknown"
}

// bodyweightKeywords marks exercises that carry no meaningful weight, so
// clients hide the weight input.
var bodyweightKeywords = []string{
	"push-up", "pushup", "push up", "bodyweight", "band pull",
	"banded", "jump squat", "plank", "dead hang", "wall sit",
	"glute bridge",
}

func isBodyweightOrBand(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range bodyweightKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// truthy mirrors loose-document semantics: nil, false, zero, and empty
// values all count as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// intValue extracts an integer from a decoded JSON scalar. Strings and
// fractional numbers are not integers, matching how shorthand sets
// counts are interpreted.
func intValue(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.Itoa(int(t))
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
