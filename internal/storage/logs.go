// ABOUTME: Log decompose/assemble and log queries for SQLite storage.
// ABOUTME: Logs are replaced wholesale per date; plan links resolve at write time.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/harperreed/coach/internal/models"
)

// StoredLog pairs an assembled log document with its row metadata.
// SessionID is nil when no plan existed for the date at write time.
type StoredLog struct {
	LogID        int64
	SessionID    *int64
	Date         string
	LastModified string
	ModifiedBy   string
	Log          *models.LogDocument
}

// SaveLog stores a log document for a date, replacing any existing log.
// The caller supplies the timestamp so a batch of dates can share one.
func (d *DB) SaveLog(date string, log *models.LogDocument, modifiedBy, now string) error {
	err := d.withTx(func(tx *sql.Tx) error {
		_, err := decomposeLog(tx, date, log, now, modifiedBy)
		return err
	})
	if err != nil {
		return fmt.Errorf("save log for %s: %w", date, err)
	}
	return nil
}

// decomposeLog writes a log document into the relational tables. The
// owning session and each entry's planned exercise are looked up by date
// and key; missing matches leave the links null.
func decomposeLog(q querier, date string, log *models.LogDocument, lastModified, modifiedBy string) (int64, error) {
	var sessionID any
	var sid int64
	err := q.QueryRow(`SELECT id FROM workout_sessions WHERE date = ?`, date).Scan(&sid)
	switch {
	case err == nil:
		sessionID = sid
	case errors.Is(err, sql.ErrNoRows):
		sessionID = nil
	default:
		return 0, fmt.Errorf("find session for %s: %w", date, err)
	}

	if _, err := q.Exec(`DELETE FROM workout_session_logs WHERE date = ?`, date); err != nil {
		return 0, fmt.Errorf("clear existing log: %w", err)
	}

	res, err := q.Exec(`
		INSERT INTO workout_session_logs
		(session_id, date, pain_discomfort, general_notes, last_modified, modified_by)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, date,
		nullString(log.Feedback.PainDiscomfort), nullString(log.Feedback.GeneralNotes),
		lastModified, modifiedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("insert session log: %w", err)
	}
	logID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session log id: %w", err)
	}

	keys := make([]string, 0, len(log.Exercises))
	for key := range log.Exercises {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		entry := log.Exercises[key]

		var exerciseID any
		if sessionID != nil {
			var eid int64
			err := q.QueryRow(`
				SELECT id FROM planned_exercises WHERE session_id = ? AND exercise_key = ?`,
				sessionID, key,
			).Scan(&eid)
			switch {
			case err == nil:
				exerciseID = eid
			case errors.Is(err, sql.ErrNoRows):
				exerciseID = nil
			default:
				return 0, fmt.Errorf("find planned exercise %s: %w", key, err)
			}
		}

		res, err := q.Exec(`
			INSERT INTO exercise_logs
			(session_log_id, exercise_id, exercise_key, completed, user_note,
			 duration_min, avg_hr, max_hr)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			logID, exerciseID, key, boolToInt(entry.Completed), nullString(entry.UserNote),
			entry.DurationMin, entry.AvgHR, entry.MaxHR,
		)
		if err != nil {
			return 0, fmt.Errorf("insert exercise log %s: %w", key, err)
		}
		exerciseLogID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("exercise log id: %w", err)
		}

		for _, set := range entry.Sets {
			unit := set.Unit
			if unit == "" {
				unit = "lbs"
			}
			if _, err := q.Exec(`
				INSERT INTO set_logs
				(exercise_log_id, set_num, weight, reps, rpe, unit, duration_sec, completed)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				exerciseLogID, set.SetNum, set.Weight, set.Reps, set.RPE,
				unit, set.DurationSec, boolToInt(set.Completed),
			); err != nil {
				return 0, fmt.Errorf("insert set for %s: %w", key, err)
			}
		}

		for _, item := range entry.CompletedItems {
			if _, err := q.Exec(`
				INSERT INTO checklist_log_items (exercise_log_id, item_text)
				VALUES (?, ?)`,
				exerciseLogID, item,
			); err != nil {
				return 0, fmt.Errorf("insert checklist log item for %s: %w", key, err)
			}
		}
	}

	return logID, nil
}

// GetLog retrieves the assembled log for a date.
func (d *DB) GetLog(date string) (*StoredLog, error) {
	lr, err := queryLogRow(d.db, `
		SELECT id, session_id, date, pain_discomfort, general_notes, last_modified, modified_by
		FROM workout_session_logs WHERE date = ?`, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no log for date %s: %w", date, models.ErrNotFound)
		}
		return nil, err
	}
	return assembleLog(d.db, lr)
}

// ListLogs retrieves assembled logs for dates in [start, end], ordered
// by date.
func (d *DB) ListLogs(start, end string) ([]*StoredLog, error) {
	return d.queryLogs(`
		SELECT id, session_id, date, pain_discomfort, general_notes, last_modified, modified_by
		FROM workout_session_logs WHERE date >= ? AND date <= ? ORDER BY date`, start, end)
}

// LogsChangedSince retrieves logs modified strictly after the watermark,
// ordered by date.
func (d *DB) LogsChangedSince(watermark string) ([]*StoredLog, error) {
	return d.queryLogs(`
		SELECT id, session_id, date, pain_discomfort, general_notes, last_modified, modified_by
		FROM workout_session_logs WHERE last_modified > ? ORDER BY date`, watermark)
}

// LogsSinceDate retrieves logs dated on or after cutoff, ordered by
// date. Used for the initial-sync window.
func (d *DB) LogsSinceDate(cutoff string) ([]*StoredLog, error) {
	return d.queryLogs(`
		SELECT id, session_id, date, pain_discomfort, general_notes, last_modified, modified_by
		FROM workout_session_logs WHERE date >= ? ORDER BY date`, cutoff)
}

// logRow holds a raw workout_session_logs row before assembly.
type logRow struct {
	id           int64
	sessionID    sql.NullInt64
	date         string
	pain         sql.NullString
	notes        sql.NullString
	lastModified string
	modifiedBy   sql.NullString
}

func queryLogRow(q querier, query string, args ...any) (logRow, error) {
	var lr logRow
	err := q.QueryRow(query, args...).Scan(
		&lr.id, &lr.sessionID, &lr.date, &lr.pain, &lr.notes, &lr.lastModified, &lr.modifiedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lr, err
		}
		return lr, fmt.Errorf("scan session log: %w", err)
	}
	return lr, nil
}

func (d *DB) queryLogs(query string, args ...any) ([]*StoredLog, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session logs: %w", err)
	}

	var logRows []logRow
	for rows.Next() {
		var lr logRow
		if err := rows.Scan(
			&lr.id, &lr.sessionID, &lr.date, &lr.pain, &lr.notes, &lr.lastModified, &lr.modifiedBy,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session log: %w", err)
		}
		logRows = append(logRows, lr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate session logs: %w", err)
	}
	rows.Close()

	logs := make([]*StoredLog, 0, len(logRows))
	for _, lr := range logRows {
		sl, err := assembleLog(d.db, lr)
		if err != nil {
			return nil, err
		}
		logs = append(logs, sl)
	}
	return logs, nil
}

// assembleLog builds the sparse log document for one log row. The
// session_feedback object is always present, even when empty.
func assembleLog(q querier, lr logRow) (*StoredLog, error) {
	doc := &models.LogDocument{Exercises: make(map[string]models.ExerciseEntry)}
	if lr.pain.Valid && lr.pain.String != "" {
		doc.Feedback.PainDiscomfort = lr.pain.String
	}
	if lr.notes.Valid && lr.notes.String != "" {
		doc.Feedback.GeneralNotes = lr.notes.String
	}

	rows, err := q.Query(`
		SELECT id, exercise_key, completed, user_note, duration_min, avg_hr, max_hr
		FROM exercise_logs WHERE session_log_id = ? ORDER BY id`, lr.id)
	if err != nil {
		return nil, fmt.Errorf("query exercise logs: %w", err)
	}

	type entryRow struct {
		id    int64
		key   string
		entry models.ExerciseEntry
	}
	var entryRows []entryRow
	for rows.Next() {
		var id int64
		var key string
		var completed int
		var userNote sql.NullString
		var durationMin sql.NullFloat64
		var avgHR, maxHR sql.NullInt64
		if err := rows.Scan(&id, &key, &completed, &userNote, &durationMin, &avgHR, &maxHR); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan exercise log: %w", err)
		}

		var entry models.ExerciseEntry
		entry.Completed = completed != 0
		if userNote.Valid && userNote.String != "" {
			entry.UserNote = userNote.String
		}
		if durationMin.Valid {
			entry.DurationMin = models.Float64(durationMin.Float64)
		}
		if avgHR.Valid {
			entry.AvgHR = models.Int(int(avgHR.Int64))
		}
		if maxHR.Valid {
			entry.MaxHR = models.Int(int(maxHR.Int64))
		}
		entryRows = append(entryRows, entryRow{id: id, key: key, entry: entry})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate exercise logs: %w", err)
	}
	rows.Close()

	for _, er := range entryRows {
		sets, err := assembleSets(q, er.id)
		if err != nil {
			return nil, err
		}
		er.entry.Sets = sets

		items, err := completedItems(q, er.id)
		if err != nil {
			return nil, err
		}
		er.entry.CompletedItems = items

		doc.Exercises[er.key] = er.entry
	}

	var sessionID *int64
	if lr.sessionID.Valid {
		sessionID = &lr.sessionID.Int64
	}
	return &StoredLog{
		LogID:        lr.id,
		SessionID:    sessionID,
		Date:         lr.date,
		LastModified: lr.lastModified,
		ModifiedBy:   lr.modifiedBy.String,
		Log:          doc,
	}, nil
}

// assembleSets reads one exercise log's sets ordered by set number.
func assembleSets(q querier, exerciseLogID int64) ([]models.SetEntry, error) {
	rows, err := q.Query(`
		SELECT set_num, weight, reps, rpe, unit, duration_sec, completed
		FROM set_logs WHERE exercise_log_id = ? ORDER BY set_num`, exerciseLogID)
	if err != nil {
		return nil, fmt.Errorf("query sets: %w", err)
	}
	defer rows.Close()

	var sets []models.SetEntry
	for rows.Next() {
		var setNum, completed int
		var weight, rpe, durationSec sql.NullFloat64
		var reps sql.NullInt64
		var unit sql.NullString
		if err := rows.Scan(&setNum, &weight, &reps, &rpe, &unit, &durationSec, &completed); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}

		set := models.SetEntry{SetNum: setNum}
		if weight.Valid {
			set.Weight = models.Float64(weight.Float64)
		}
		if reps.Valid {
			set.Reps = models.Int(int(reps.Int64))
		}
		if rpe.Valid {
			set.RPE = models.Float64(rpe.Float64)
		}
		if unit.Valid && unit.String != "" {
			set.Unit = unit.String
		}
		if durationSec.Valid {
			set.DurationSec = models.Float64(durationSec.Float64)
		}
		set.Completed = completed != 0
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// completedItems reads one exercise log's checklist items in insertion
// order.
func completedItems(q querier, exerciseLogID int64) ([]string, error) {
	rows, err := q.Query(`
		SELECT item_text FROM checklist_log_items WHERE exercise_log_id = ? ORDER BY id`, exerciseLogID)
	if err != nil {
		return nil, fmt.Errorf("query checklist log items: %w", err)
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan checklist log item: %w", err)
		}
		items = append(items, text)
	}
	return items, rows.Err()
}
