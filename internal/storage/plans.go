// ABOUTME: Plan decompose/assemble and session queries for SQLite storage.
// ABOUTME: Plans are replaced wholesale per date; assembled documents are sparse.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/coach/internal/models"
)

// StoredPlan pairs an assembled plan document with its session row
// metadata (date, modification tracking).
type StoredPlan struct {
	SessionID    int64
	Date         string
	LastModified string
	ModifiedBy   string
	Plan         *models.PlanDocument
}

// SavePlan stores a plan document for a date, replacing any existing
// plan. Returns the new session ID.
func (d *DB) SavePlan(date string, plan *models.PlanDocument, modifiedBy string) (int64, error) {
	var sessionID int64
	err := d.withTx(func(tx *sql.Tx) error {
		id, err := decomposePlan(tx, date, plan, UTCNow(), modifiedBy)
		if err != nil {
			return err
		}
		sessionID = id
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("save plan for %s: %w", date, err)
	}
	return sessionID, nil
}

// decomposePlan writes a plan document into the relational tables.
// The existing session for the date is deleted first; cascade removes
// its blocks, exercises, and checklist items.
func decomposePlan(q querier, date string, plan *models.PlanDocument, lastModified, modifiedBy string) (int64, error) {
	if _, err := q.Exec(`DELETE FROM workout_sessions WHERE date = ?`, date); err != nil {
		return 0, fmt.Errorf("clear existing session: %w", err)
	}

	dayName := plan.DayName
	if dayName == "" {
		dayName = "Workout"
	}

	res, err := q.Exec(`
		INSERT INTO workout_sessions (date, day_name, location, phase, duration_min, last_modified, modified_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		date, dayName, nullString(plan.Location), nullString(plan.Phase),
		plan.TotalDurationMin, lastModified, modifiedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session id: %w", err)
	}

	for i, block := range plan.Blocks {
		position := i
		if block.BlockIndex != nil {
			position = *block.BlockIndex
		}

		res, err := q.Exec(`
			INSERT INTO session_blocks (session_id, position, block_type, title, duration_min, rest_guidance, rounds)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sessionID, position, string(block.BlockType), nullString(block.Title),
			block.DurationMin, block.RestGuidance, block.Rounds,
		)
		if err != nil {
			return 0, fmt.Errorf("insert block %d: %w", position, err)
		}
		blockID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("block id: %w", err)
		}

		for j, ex := range block.Exercises {
			key := ex.ID
			if key == "" {
				key = synthExerciseKey(string(block.BlockType), position, j)
			}
			if err := insertPlannedExercise(q, sessionID, blockID, key, j, &ex); err != nil {
				return 0, err
			}
		}
	}

	return sessionID, nil
}

// synthExerciseKey builds a stable key for exercises that arrive without
// an explicit id.
func synthExerciseKey(blockType string, blockIndex, exerciseIndex int) string {
	if blockType == "" {
		blockType = "ex"
	}
	return fmt.Sprintf("%s_%d_%d", blockType, blockIndex, exerciseIndex)
}

// insertPlannedExercise writes one exercise row plus its checklist items.
func insertPlannedExercise(q querier, sessionID, blockID int64, key string, position int, ex *models.Exercise) error {
	name := ex.Name
	if name == "" {
		name = "Unknown"
	}
	exType := ex.Type
	if exType == "" {
		exType = models.ExerciseStrength
	}

	var extra any
	if len(ex.Extra) > 0 {
		data, err := json.Marshal(ex.Extra)
		if err != nil {
			return fmt.Errorf("encode extra for %s: %w", key, err)
		}
		extra = string(data)
	}

	res, err := q.Exec(`
		INSERT INTO planned_exercises
		(session_id, block_id, exercise_key, position, name, exercise_type,
		 target_sets, target_reps, target_duration_min, target_duration_sec,
		 rounds, work_duration_sec, rest_duration_sec,
		 guidance_note, hide_weight, show_time, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, blockID, key, position, name, string(exType),
		ex.TargetSets, nullString(string(ex.TargetReps)), ex.TargetDurationMin, ex.TargetDurationSec,
		ex.Rounds, ex.WorkDurationSec, ex.RestDurationSec,
		nullString(ex.GuidanceNote), boolToInt(ex.HideWeight), boolToInt(ex.ShowTime), extra,
	)
	if err != nil {
		return fmt.Errorf("insert exercise %s: %w", key, err)
	}

	if ex.Type == models.ExerciseChecklist {
		exerciseID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("exercise id: %w", err)
		}
		for k, item := range ex.Items {
			if _, err := q.Exec(`
				INSERT INTO checklist_items (exercise_id, position, item_text)
				VALUES (?, ?, ?)`,
				exerciseID, k, item,
			); err != nil {
				return fmt.Errorf("insert checklist item %d for %s: %w", k, key, err)
			}
		}
	}
	return nil
}

// GetPlan retrieves the assembled plan for a date.
func (d *DB) GetPlan(date string) (*StoredPlan, error) {
	sr, err := querySession(d.db, `
		SELECT id, date, day_name, location, phase, duration_min, last_modified, modified_by
		FROM workout_sessions WHERE date = ?`, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no plan for date %s: %w", date, models.ErrNotFound)
		}
		return nil, err
	}
	return assemblePlan(d.db, sr)
}

// ListPlans retrieves assembled plans for dates in [start, end], ordered
// by date.
func (d *DB) ListPlans(start, end string) ([]*StoredPlan, error) {
	return d.queryPlans(`
		SELECT id, date, day_name, location, phase, duration_min, last_modified, modified_by
		FROM workout_sessions WHERE date >= ? AND date <= ? ORDER BY date`, start, end)
}

// PlansChangedSince retrieves plans modified strictly after the
// watermark, or all plans when the watermark is empty. Ordered by date.
func (d *DB) PlansChangedSince(watermark string) ([]*StoredPlan, error) {
	if watermark == "" {
		return d.queryPlans(`
			SELECT id, date, day_name, location, phase, duration_min, last_modified, modified_by
			FROM workout_sessions ORDER BY date`)
	}
	return d.queryPlans(`
		SELECT id, date, day_name, location, phase, duration_min, last_modified, modified_by
		FROM workout_sessions WHERE last_modified > ? ORDER BY date`, watermark)
}

// ListPlanDates returns the dates in [start, end] that have a plan,
// ascending.
func (d *DB) ListPlanDates(start, end string) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT date FROM workout_sessions WHERE date >= ? AND date <= ? ORDER BY date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list plan dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan plan date: %w", err)
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// DeletePlan removes the plan for a date; cascade removes blocks,
// exercises, and checklist items.
func (d *DB) DeletePlan(date string) error {
	res, err := d.db.Exec(`DELETE FROM workout_sessions WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no plan for date %s: %w", date, models.ErrNotFound)
	}
	return nil
}

// PlanMetadataUpdate selects which session-level fields to change. Nil
// fields are left untouched.
type PlanMetadataUpdate struct {
	DayName          *string `json:"day_name,omitempty"`
	Location         *string `json:"location,omitempty"`
	Phase            *string `json:"phase,omitempty"`
	TotalDurationMin *int    `json:"total_duration_min,omitempty"`
}

// UpdatePlanMetadata updates session-level fields for a date and touches
// the session's modification tracking. Returns the updated plan and its
// exercise count.
func (d *DB) UpdatePlanMetadata(date string, upd *PlanMetadataUpdate, modifiedBy string) (*StoredPlan, int, error) {
	var plan *StoredPlan
	var exerciseCount int

	err := d.withTx(func(tx *sql.Tx) error {
		sr, err := querySession(tx, `
			SELECT id, date, day_name, location, phase, duration_min, last_modified, modified_by
			FROM workout_sessions WHERE date = ?`, date)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("no plan for date %s: %w", date, models.ErrNotFound)
			}
			return err
		}

		sets := []string{"last_modified = ?", "modified_by = ?"}
		args := []any{UTCNow(), modifiedBy}
		if upd.DayName != nil {
			sets = append(sets, "day_name = ?")
			args = append(args, *upd.DayName)
		}
		if upd.Location != nil {
			sets = append(sets, "location = ?")
			args = append(args, *upd.Location)
		}
		if upd.Phase != nil {
			sets = append(sets, "phase = ?")
			args = append(args, *upd.Phase)
		}
		if upd.TotalDurationMin != nil {
			sets = append(sets, "duration_min = ?")
			args = append(args, *upd.TotalDurationMin)
		}
		args = append(args, sr.id)

		query := fmt.Sprintf("UPDATE workout_sessions SET %s WHERE id = ?", strings.Join(sets, ", "))
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("update session metadata: %w", err)
		}

		if err := tx.QueryRow(`
			SELECT COUNT(*) FROM planned_exercises WHERE session_id = ?`, sr.id,
		).Scan(&exerciseCount); err != nil {
			return fmt.Errorf("count exercises: %w", err)
		}

		sr, err = querySession(tx, `
			SELECT id, date, day_name, location, phase, duration_min, last_modified, modified_by
			FROM workout_sessions WHERE id = ?`, sr.id)
		if err != nil {
			return err
		}
		plan, err = assemblePlan(tx, sr)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return plan, exerciseCount, nil
}

// sessionRow holds a raw workout_sessions row before assembly.
type sessionRow struct {
	id           int64
	date         string
	dayName      string
	location     sql.NullString
	phase        sql.NullString
	durationMin  sql.NullInt64
	lastModified string
	modifiedBy   sql.NullString
}

// querySession runs a single-row session query.
func querySession(q querier, query string, args ...any) (sessionRow, error) {
	var sr sessionRow
	err := q.QueryRow(query, args...).Scan(
		&sr.id, &sr.date, &sr.dayName, &sr.location, &sr.phase,
		&sr.durationMin, &sr.lastModified, &sr.modifiedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sr, err
		}
		return sr, fmt.Errorf("scan session: %w", err)
	}
	return sr, nil
}

// queryPlans collects session rows, then assembles each one.
func (d *DB) queryPlans(query string, args ...any) ([]*StoredPlan, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	var sessions []sessionRow
	for rows.Next() {
		var sr sessionRow
		if err := rows.Scan(
			&sr.id, &sr.date, &sr.dayName, &sr.location, &sr.phase,
			&sr.durationMin, &sr.lastModified, &sr.modifiedBy,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	rows.Close()

	plans := make([]*StoredPlan, 0, len(sessions))
	for _, sr := range sessions {
		sp, err := assemblePlan(d.db, sr)
		if err != nil {
			return nil, err
		}
		plans = append(plans, sp)
	}
	return plans, nil
}

// blockRow holds a raw session_blocks row before assembly.
type blockRow struct {
	id           int64
	position     int
	blockType    string
	title        sql.NullString
	durationMin  sql.NullInt64
	restGuidance sql.NullString
	rounds       sql.NullInt64
}

// assemblePlan builds the sparse plan document for one session row.
// Blocks are ordered by position, exercises by position within block,
// checklist items by position.
func assemblePlan(q querier, sr sessionRow) (*StoredPlan, error) {
	doc := &models.PlanDocument{DayName: sr.dayName}
	if sr.location.Valid && sr.location.String != "" {
		doc.Location = sr.location.String
	}
	if sr.phase.Valid && sr.phase.String != "" {
		doc.Phase = sr.phase.String
	}
	if sr.durationMin.Valid {
		doc.TotalDurationMin = models.Int(int(sr.durationMin.Int64))
	}

	rows, err := q.Query(`
		SELECT id, position, block_type, title, duration_min, rest_guidance, rounds
		FROM session_blocks WHERE session_id = ? ORDER BY position`, sr.id)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	var blockRows []blockRow
	for rows.Next() {
		var br blockRow
		if err := rows.Scan(&br.id, &br.position, &br.blockType, &br.title, &br.durationMin, &br.restGuidance, &br.rounds); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blockRows = append(blockRows, br)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	rows.Close()

	blocks := make([]models.Block, 0, len(blockRows))
	for _, br := range blockRows {
		exercises, err := assembleBlockExercises(q, br.id)
		if err != nil {
			return nil, err
		}

		block := models.Block{
			BlockIndex: models.Int(br.position),
			BlockType:  models.BlockType(br.blockType),
			Exercises:  exercises,
		}
		if br.title.Valid && br.title.String != "" {
			block.Title = br.title.String
		}
		if br.durationMin.Valid {
			block.DurationMin = models.Int(int(br.durationMin.Int64))
		}
		if br.restGuidance.Valid && br.restGuidance.String != "" {
			block.RestGuidance = br.restGuidance.String
		}
		if br.rounds.Valid {
			block.Rounds = models.Int(int(br.rounds.Int64))
		}
		blocks = append(blocks, block)
	}
	doc.Blocks = blocks

	return &StoredPlan{
		SessionID:    sr.id,
		Date:         sr.date,
		LastModified: sr.lastModified,
		ModifiedBy:   sr.modifiedBy.String,
		Plan:         doc,
	}, nil
}

// assembleBlockExercises reads one block's exercises in position order.
func assembleBlockExercises(q querier, blockID int64) ([]models.Exercise, error) {
	rows, err := q.Query(`
		SELECT id, exercise_key, name, exercise_type,
		       target_sets, target_reps, target_duration_min, target_duration_sec,
		       rounds, work_duration_sec, rest_duration_sec,
		       guidance_note, hide_weight, show_time
		FROM planned_exercises WHERE block_id = ? ORDER BY position`, blockID)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}

	type exRow struct {
		id int64
		ex models.Exercise
	}
	var exRows []exRow
	for rows.Next() {
		id, ex, err := scanPlannedExercise(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		exRows = append(exRows, exRow{id: id, ex: ex})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}
	rows.Close()

	exercises := make([]models.Exercise, 0, len(exRows))
	for _, er := range exRows {
		if er.ex.Type == models.ExerciseChecklist {
			items, err := checklistItems(q, er.id)
			if err != nil {
				return nil, err
			}
			er.ex.Items = items
		}
		exercises = append(exercises, er.ex)
	}
	return exercises, nil
}

// checklistItems reads one exercise's checklist items in position order.
func checklistItems(q querier, exerciseID int64) ([]string, error) {
	rows, err := q.Query(`
		SELECT item_text FROM checklist_items WHERE exercise_id = ? ORDER BY position`, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("query checklist items: %w", err)
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		items = append(items, text)
	}
	return items, rows.Err()
}

// nullString maps empty strings to NULL for optional text columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
