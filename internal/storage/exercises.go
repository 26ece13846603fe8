// ABOUTME: Incremental exercise mutations: update, add (with position shift), remove.
// ABOUTME: Every mutation touches the owning session's modification tracking.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/coach/internal/models"
)

// ExerciseUpdate selects which exercise fields to change. Nil fields are
// left untouched; a non-nil Items replaces the checklist wholesale.
type ExerciseUpdate struct {
	Name              *string            `json:"name,omitempty"`
	Type              *string            `json:"type,omitempty"`
	TargetSets        *int               `json:"target_sets,omitempty"`
	TargetReps        *models.FlexString `json:"target_reps,omitempty"`
	TargetDurationMin *int               `json:"target_duration_min,omitempty"`
	TargetDurationSec *int               `json:"target_duration_sec,omitempty"`
	Rounds            *int               `json:"rounds,omitempty"`
	WorkDurationSec   *int               `json:"work_duration_sec,omitempty"`
	RestDurationSec   *int               `json:"rest_duration_sec,omitempty"`
	GuidanceNote      *string            `json:"guidance_note,omitempty"`
	HideWeight        *bool              `json:"hide_weight,omitempty"`
	ShowTime          *bool              `json:"show_time,omitempty"`
	Items             []string           `json:"items,omitempty"`
}

// UpdateExercise applies field updates to one exercise in a date's plan
// and returns the updated exercise as it would assemble.
func (d *DB) UpdateExercise(date, key string, upd *ExerciseUpdate, modifiedBy string) (*models.Exercise, error) {
	var updated *models.Exercise

	err := d.withTx(func(tx *sql.Tx) error {
		peID, sessionID, err := findPlannedExercise(tx, date, key)
		if err != nil {
			return err
		}

		var sets []string
		var args []any
		addSet := func(col string, val any) {
			sets = append(sets, col+" = ?")
			args = append(args, val)
		}
		if upd.Name != nil {
			addSet("name", *upd.Name)
		}
		if upd.Type != nil {
			addSet("exercise_type", *upd.Type)
		}
		if upd.TargetSets != nil {
			addSet("target_sets", *upd.TargetSets)
		}
		if upd.TargetReps != nil {
			addSet("target_reps", string(*upd.TargetReps))
		}
		if upd.TargetDurationMin != nil {
			addSet("target_duration_min", *upd.TargetDurationMin)
		}
		if upd.TargetDurationSec != nil {
			addSet("target_duration_sec", *upd.TargetDurationSec)
		}
		if upd.Rounds != nil {
			addSet("rounds", *upd.Rounds)
		}
		if upd.WorkDurationSec != nil {
			addSet("work_duration_sec", *upd.WorkDurationSec)
		}
		if upd.RestDurationSec != nil {
			addSet("rest_duration_sec", *upd.RestDurationSec)
		}
		if upd.GuidanceNote != nil {
			addSet("guidance_note", *upd.GuidanceNote)
		}
		if upd.HideWeight != nil {
			addSet("hide_weight", boolToInt(*upd.HideWeight))
		}
		if upd.ShowTime != nil {
			addSet("show_time", boolToInt(*upd.ShowTime))
		}

		if len(sets) > 0 {
			args = append(args, peID)
			query := fmt.Sprintf("UPDATE planned_exercises SET %s WHERE id = ?", strings.Join(sets, ", "))
			if _, err := tx.Exec(query, args...); err != nil {
				return fmt.Errorf("update exercise: %w", err)
			}
		}

		if upd.Items != nil {
			if _, err := tx.Exec(`DELETE FROM checklist_items WHERE exercise_id = ?`, peID); err != nil {
				return fmt.Errorf("clear checklist items: %w", err)
			}
			for k, item := range upd.Items {
				if _, err := tx.Exec(`
					INSERT INTO checklist_items (exercise_id, position, item_text)
					VALUES (?, ?, ?)`,
					peID, k, item,
				); err != nil {
					return fmt.Errorf("insert checklist item %d: %w", k, err)
				}
			}
		}

		if err := touchSession(tx, sessionID, modifiedBy); err != nil {
			return err
		}

		updated, err = readPlannedExercise(tx, peID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddExercise inserts a new exercise into the block at blockPosition.
// A nil position appends; an explicit position shifts later exercises up
// by one. Returns the plan's total exercise count.
func (d *DB) AddExercise(date string, ex *models.Exercise, blockPosition int, position *int, modifiedBy string) (int, error) {
	var total int

	err := d.withTx(func(tx *sql.Tx) error {
		var sessionID int64
		err := tx.QueryRow(`SELECT id FROM workout_sessions WHERE date = ?`, date).Scan(&sessionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("no plan for date %s: %w", date, models.ErrNotFound)
			}
			return fmt.Errorf("find session: %w", err)
		}

		var existing int64
		err = tx.QueryRow(`
			SELECT id FROM planned_exercises WHERE session_id = ? AND exercise_key = ?`,
			sessionID, ex.ID,
		).Scan(&existing)
		if err == nil {
			return models.Validationf("exercise ID %q already exists in plan", ex.ID)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check duplicate key: %w", err)
		}

		var blockID int64
		err = tx.QueryRow(`
			SELECT id FROM session_blocks WHERE session_id = ? AND position = ?`,
			sessionID, blockPosition,
		).Scan(&blockID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("block at position %d: %w", blockPosition, models.ErrNotFound)
			}
			return fmt.Errorf("find block: %w", err)
		}

		var pos int
		if position == nil {
			if err := tx.QueryRow(`
				SELECT COALESCE(MAX(position), -1) + 1 FROM planned_exercises WHERE block_id = ?`,
				blockID,
			).Scan(&pos); err != nil {
				return fmt.Errorf("next position: %w", err)
			}
		} else {
			pos = *position
			if _, err := tx.Exec(`
				UPDATE planned_exercises SET position = position + 1
				WHERE block_id = ? AND position >= ?`,
				blockID, pos,
			); err != nil {
				return fmt.Errorf("shift positions: %w", err)
			}
		}

		if err := insertPlannedExercise(tx, sessionID, blockID, ex.ID, pos, ex); err != nil {
			return err
		}

		if err := touchSession(tx, sessionID, modifiedBy); err != nil {
			return err
		}

		return tx.QueryRow(`
			SELECT COUNT(*) FROM planned_exercises WHERE session_id = ?`, sessionID,
		).Scan(&total)
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// RemoveExercise deletes one exercise from a date's plan; cascade
// removes its checklist items. Returns the remaining exercise count.
func (d *DB) RemoveExercise(date, key, modifiedBy string) (int, error) {
	var remaining int

	err := d.withTx(func(tx *sql.Tx) error {
		peID, sessionID, err := findPlannedExercise(tx, date, key)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM planned_exercises WHERE id = ?`, peID); err != nil {
			return fmt.Errorf("delete exercise: %w", err)
		}

		if err := touchSession(tx, sessionID, modifiedBy); err != nil {
			return err
		}

		return tx.QueryRow(`
			SELECT COUNT(*) FROM planned_exercises WHERE session_id = ?`, sessionID,
		).Scan(&remaining)
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// findPlannedExercise resolves an exercise by plan date and key.
func findPlannedExercise(q querier, date, key string) (peID, sessionID int64, err error) {
	err = q.QueryRow(`
		SELECT pe.id, pe.session_id FROM planned_exercises pe
		JOIN workout_sessions ws ON pe.session_id = ws.id
		WHERE ws.date = ? AND pe.exercise_key = ?`,
		date, key,
	).Scan(&peID, &sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, fmt.Errorf("exercise %q in plan for %s: %w", key, date, models.ErrNotFound)
		}
		return 0, 0, fmt.Errorf("find exercise: %w", err)
	}
	return peID, sessionID, nil
}

// touchSession stamps the session's last_modified and modified_by.
func touchSession(q querier, sessionID int64, modifiedBy string) error {
	if _, err := q.Exec(`
		UPDATE workout_sessions SET last_modified = ?, modified_by = ? WHERE id = ?`,
		UTCNow(), modifiedBy, sessionID,
	); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// readPlannedExercise assembles a single exercise row by surrogate id.
func readPlannedExercise(q querier, peID int64) (*models.Exercise, error) {
	row := q.QueryRow(`
		SELECT id, exercise_key, name, exercise_type,
		       target_sets, target_reps, target_duration_min, target_duration_sec,
		       rounds, work_duration_sec, rest_duration_sec,
		       guidance_note, hide_weight, show_time
		FROM planned_exercises WHERE id = ?`, peID)

	id, ex, err := scanPlannedExercise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("exercise row %d: %w", peID, models.ErrNotFound)
		}
		return nil, err
	}
	if ex.Type == models.ExerciseChecklist {
		items, err := checklistItems(q, id)
		if err != nil {
			return nil, err
		}
		ex.Items = items
	}
	return &ex, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlannedExercise maps one planned_exercises row to a sparse
// Exercise value, returning the row's surrogate id alongside.
func scanPlannedExercise(sc rowScanner) (int64, models.Exercise, error) {
	var id int64
	var key, name, exType string
	var targetSets, tdMin, tdSec, rounds, workSec, restSec sql.NullInt64
	var targetReps, guidance sql.NullString
	var hideWeight, showTime int

	err := sc.Scan(&id, &key, &name, &exType,
		&targetSets, &targetReps, &tdMin, &tdSec,
		&rounds, &workSec, &restSec,
		&guidance, &hideWeight, &showTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.Exercise{}, err
		}
		return 0, models.Exercise{}, fmt.Errorf("scan exercise: %w", err)
	}

	ex := models.Exercise{ID: key, Name: name, Type: models.ExerciseType(exType)}
	if targetSets.Valid {
		ex.TargetSets = models.Int(int(targetSets.Int64))
	}
	if targetReps.Valid && targetReps.String != "" {
		ex.TargetReps = models.FlexString(targetReps.String)
	}
	if tdMin.Valid {
		ex.TargetDurationMin = models.Int(int(tdMin.Int64))
	}
	if tdSec.Valid {
		ex.TargetDurationSec = models.Int(int(tdSec.Int64))
	}
	if rounds.Valid {
		ex.Rounds = models.Int(int(rounds.Int64))
	}
	if workSec.Valid {
		ex.WorkDurationSec = models.Int(int(workSec.Int64))
	}
	if restSec.Valid {
		ex.RestDurationSec = models.Int(int(restSec.Int64))
	}
	if guidance.Valid && guidance.String != "" {
		ex.GuidanceNote = guidance.String
	}
	ex.HideWeight = hideWeight != 0
	ex.ShowTime = showTime != 0

	return id, ex, nil
}
