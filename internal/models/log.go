// ABOUTME: LogDocument and entry types for recorded workout results.
// ABOUTME: Implements the dynamic-key JSON codec (exercise keys + reserved meta keys).
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Reserved top-level keys in a log document. Every other object-valued
// key is an exercise entry keyed by exercise key.
const (
	logKeyFeedback   = "session_feedback"
	logKeyModifiedAt = "_lastModifiedAt"
	logKeyModifiedBy = "_lastModifiedBy"
	logKeyServerMod  = "_lastModified"
)

// SessionFeedback holds free-form notes about the whole session.
type SessionFeedback struct {
	PainDiscomfort string `json:"pain_discomfort,omitempty"`
	GeneralNotes   string `json:"general_notes,omitempty"`
}

// SetEntry records one performed set. SetNum is always emitted; the
// measurements appear only when recorded.
type SetEntry struct {
	SetNum      int      `json:"set_num"`
	Weight      *float64 `json:"weight,omitempty"`
	Reps        *int     `json:"reps,omitempty"`
	RPE         *float64 `json:"rpe,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	DurationSec *float64 `json:"duration_sec,omitempty"`
	Completed   bool     `json:"completed,omitempty"`
}

// ExerciseEntry records the result of one planned exercise.
type ExerciseEntry struct {
	Completed      bool       `json:"completed,omitempty"`
	UserNote       string     `json:"user_note,omitempty"`
	DurationMin    *float64   `json:"duration_min,omitempty"`
	AvgHR          *int       `json:"avg_hr,omitempty"`
	MaxHR          *int       `json:"max_hr,omitempty"`
	Sets           []SetEntry `json:"sets,omitempty"`
	CompletedItems []string   `json:"completed_items,omitempty"`
}

// LogDocument is the recorded outcome of one date's workout. On the wire
// it is a single JSON object: "session_feedback" is always present,
// "_lastModifiedAt"/"_lastModifiedBy" carry client clocks, and every
// remaining object value is an exercise entry. Non-object values under
// unrecognized keys are ignored on decode.
type LogDocument struct {
	Feedback  SessionFeedback
	Exercises map[string]ExerciseEntry

	ModifiedAt string
	ModifiedBy string

	// ServerModified is only populated on documents returned by sync pulls.
	ServerModified string
}

func (d LogDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Exercises)+4)
	out[logKeyFeedback] = d.Feedback
	for key, entry := range d.Exercises {
		out[key] = entry
	}
	if d.ModifiedAt != "" {
		out[logKeyModifiedAt] = d.ModifiedAt
	}
	if d.ModifiedBy != "" {
		out[logKeyModifiedBy] = d.ModifiedBy
	}
	if d.ServerModified != "" {
		out[logKeyServerMod] = d.ServerModified
	}
	return json.Marshal(out)
}

func (d *LogDocument) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("log document must be a JSON object: %w", err)
	}

	d.Feedback = SessionFeedback{}
	d.Exercises = make(map[string]ExerciseEntry)
	d.ModifiedAt = ""
	d.ModifiedBy = ""
	d.ServerModified = ""

	for key, val := range raw {
		switch key {
		case logKeyFeedback:
			if isJSONObject(val) {
				if err := json.Unmarshal(val, &d.Feedback); err != nil {
					return fmt.Errorf("session_feedback: %w", err)
				}
			}
		case logKeyModifiedAt:
			d.ModifiedAt = stringValue(val)
		case logKeyModifiedBy:
			d.ModifiedBy = stringValue(val)
		case logKeyServerMod:
			d.ServerModified = stringValue(val)
		default:
			if !isJSONObject(val) {
				continue
			}
			var entry ExerciseEntry
			if err := json.Unmarshal(val, &entry); err != nil {
				return fmt.Errorf("exercise entry %q: %w", key, err)
			}
			d.Exercises[key] = entry
		}
	}
	return nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func stringValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
