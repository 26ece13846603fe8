// ABOUTME: One-shot migration from the legacy JSON-blob tables to the relational schema.
// ABOUTME: Renames the originals to *_legacy and validates row parity before committing.

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/coach/internal/models"
)

// ErrMigrationValidation reports that post-migration validation found
// inconsistencies and every change was rolled back.
var ErrMigrationValidation = errors.New("migration validation failed")

// MigrateReport holds counts and findings from one migration run.
type MigrateReport struct {
	DryRun           bool
	PlansTotal       int
	PlansWithBlocks  int
	PlansFlat        int
	PlannedExercises int
	LogsTotal        int
	ExerciseLogs     int
	SetLogs          int
	Warnings         []string
	Issues           []string
}

// legacyPlan is the loose shape of a workout_plans JSON blob. Old blobs
// either carry structured blocks or a flat exercises list.
type legacyPlan struct {
	DayName          string            `json:"day_name"`
	Theme            string            `json:"theme"`
	Location         string            `json:"location"`
	Phase            string            `json:"phase"`
	TotalDurationMin *int              `json:"total_duration_min"`
	Blocks           []models.Block    `json:"blocks"`
	Exercises        []models.Exercise `json:"exercises"`
}

// legacyTypeToBlock maps exercise types (including retired ones) to the
// synthetic block that should hold them when wrapping a flat list.
var legacyTypeToBlock = map[string]models.BlockType{
	"checklist":     models.BlockWarmup,
	"strength":      models.BlockStrength,
	"circuit":       models.BlockCircuit,
	"duration":      models.BlockCardio,
	"interval":      models.BlockCardio,
	"weighted_time": models.BlockStrength,
	"power":         models.BlockPower,
	"accessory":     models.BlockAccessory,
}

var legacyBlockTitles = map[models.BlockType]string{
	models.BlockWarmup:    "Warmup",
	models.BlockStrength:  "Strength Block",
	models.BlockCircuit:   "Circuit Block",
	models.BlockCardio:    "Cardio",
	models.BlockPower:     "Power Block",
	models.BlockAccessory: "Accessory Block",
}

// MigrateFromLegacy moves every plan and log out of the JSON-blob tables
// into the relational schema, then renames the blob tables to
// workout_plans_legacy/workout_logs_legacy. All writes happen in one
// transaction; if post-migration validation finds any issue the
// transaction is rolled back, the legacy tables keep their original
// names, and the returned report carries the issues alongside
// ErrMigrationValidation. A dry run only parses and counts.
func MigrateFromLegacy(d *DB, dryRun bool) (*MigrateReport, error) {
	report := &MigrateReport{DryRun: dryRun}

	var name string
	err := d.db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'workout_plans'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("workout_plans table not found: nothing to migrate")
	}
	if err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}

	var existing int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM workout_sessions`).Scan(&existing); err != nil {
		return nil, fmt.Errorf("check relational tables: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("workout_sessions already contains %d rows: refusing to re-migrate", existing)
	}

	if dryRun {
		if err := migratePlans(d.db, report, true); err != nil {
			return report, err
		}
		if err := migrateLogs(d.db, report, true); err != nil {
			return report, err
		}
		return report, nil
	}

	err = d.withTx(func(tx *sql.Tx) error {
		if err := migratePlans(tx, report, false); err != nil {
			return err
		}
		if err := migrateLogs(tx, report, false); err != nil {
			return err
		}
		if _, err := tx.Exec(`ALTER TABLE workout_plans RENAME TO workout_plans_legacy`); err != nil {
			return fmt.Errorf("rename workout_plans: %w", err)
		}
		if _, err := tx.Exec(`ALTER TABLE workout_logs RENAME TO workout_logs_legacy`); err != nil {
			return fmt.Errorf("rename workout_logs: %w", err)
		}

		issues, err := validateMigration(tx)
		if err != nil {
			return err
		}
		if len(issues) > 0 {
			report.Issues = issues
			return ErrMigrationValidation
		}
		return nil
	})
	return report, err
}

// legacyRow is one row of a JSON-blob table.
type legacyRow struct {
	date         string
	blob         string
	lastModified sql.NullString
	modifiedBy   sql.NullString
}

func readLegacyRows(q querier, table, blobColumn string) ([]legacyRow, error) {
	rows, err := q.Query(`SELECT date, ` + blobColumn + `, last_modified, last_modified_by FROM ` + table)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	var out []legacyRow
	for rows.Next() {
		var lr legacyRow
		if err := rows.Scan(&lr.date, &lr.blob, &lr.lastModified, &lr.modifiedBy); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}

func migratePlans(q querier, report *MigrateReport, dryRun bool) error {
	legacy, err := readLegacyRows(q, "workout_plans", "plan_json")
	if err != nil {
		return err
	}

	for _, row := range legacy {
		report.PlansTotal++

		var plan legacyPlan
		if err := json.Unmarshal([]byte(row.blob), &plan); err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("invalid JSON for plan %s, skipping", row.date))
			continue
		}

		var blocks []models.Block
		switch {
		case len(plan.Blocks) > 0:
			blocks = plan.Blocks
			report.PlansWithBlocks++
		case len(plan.Exercises) > 0:
			blocks = wrapFlatExercises(plan.Exercises)
			report.PlansFlat++
		default:
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("plan %s has no blocks or exercises, skipping", row.date))
			continue
		}

		var sessionID int64
		if !dryRun {
			dayName := plan.DayName
			if dayName == "" {
				dayName = plan.Theme
			}
			if dayName == "" {
				dayName = "Workout"
			}
			res, err := q.Exec(`
				INSERT INTO workout_sessions
				(date, day_name, location, phase, duration_min, last_modified, modified_by)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				row.date, dayName, nullString(plan.Location), nullString(plan.Phase),
				plan.TotalDurationMin, row.lastModified.String, row.modifiedBy,
			)
			if err != nil {
				return fmt.Errorf("migrate plan %s: %w", row.date, err)
			}
			sessionID, err = res.LastInsertId()
			if err != nil {
				return fmt.Errorf("migrate plan %s: session id: %w", row.date, err)
			}
		}

		seen := make(map[string]struct{})
		for i, block := range blocks {
			var blockID int64
			if !dryRun {
				position := i
				if block.BlockIndex != nil {
					position = *block.BlockIndex
				}
				blockType := block.BlockType
				if blockType == "" {
					blockType = models.BlockStrength
				}
				res, err := q.Exec(`
					INSERT INTO session_blocks
					(session_id, position, block_type, title, duration_min, rest_guidance, rounds)
					VALUES (?, ?, ?, ?, ?, ?, ?)`,
					sessionID, position, string(blockType), nullString(block.Title),
					block.DurationMin, block.RestGuidance, block.Rounds,
				)
				if err != nil {
					return fmt.Errorf("migrate plan %s: block %d: %w", row.date, i, err)
				}
				blockID, err = res.LastInsertId()
				if err != nil {
					return fmt.Errorf("migrate plan %s: block id: %w", row.date, err)
				}
			}

			keyBase := string(block.BlockType)
			if keyBase == "" {
				keyBase = "ex"
			}
			for j, ex := range block.Exercises {
				key := ex.ID
				if key == "" {
					key = fmt.Sprintf("%s_%d_%d", keyBase, i, j)
				}
				if _, dup := seen[key]; dup {
					report.Warnings = append(report.Warnings,
						fmt.Sprintf("duplicate exercise_key %q in plan %s, skipping", key, row.date))
					continue
				}
				seen[key] = struct{}{}
				report.PlannedExercises++

				if dryRun {
					continue
				}

				name := ex.Name
				if name == "" {
					name = "Unknown"
				}
				exType := ex.Type
				if exType == "" {
					exType = models.ExerciseStrength
				}
				res, err := q.Exec(`
					INSERT INTO planned_exercises
					(session_id, block_id, exercise_key, position, name, exercise_type,
					 target_sets, target_reps, target_duration_min, target_duration_sec,
					 rounds, work_duration_sec, rest_duration_sec,
					 guidance_note, hide_weight, show_time)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					sessionID, blockID, key, j, name, string(exType),
					ex.TargetSets, nullString(string(ex.TargetReps)),
					ex.TargetDurationMin, ex.TargetDurationSec,
					ex.Rounds, ex.WorkDurationSec, ex.RestDurationSec,
					nullString(ex.GuidanceNote), boolToInt(ex.HideWeight), boolToInt(ex.ShowTime),
				)
				if err != nil {
					return fmt.Errorf("migrate plan %s: exercise %s: %w", row.date, key, err)
				}

				if ex.Type == models.ExerciseChecklist {
					exerciseID, err := res.LastInsertId()
					if err != nil {
						return fmt.Errorf("migrate plan %s: exercise id: %w", row.date, err)
					}
					for k, item := range ex.Items {
						if _, err := q.Exec(`
							INSERT INTO checklist_items (exercise_id, position, item_text)
							VALUES (?, ?, ?)`,
							exerciseID, k, item,
						); err != nil {
							return fmt.Errorf("migrate plan %s: checklist item: %w", row.date, err)
						}
					}
				}
			}
		}
	}
	return nil
}

func migrateLogs(q querier, report *MigrateReport, dryRun bool) error {
	legacy, err := readLegacyRows(q, "workout_logs", "log_json")
	if err != nil {
		return err
	}

	for _, row := range legacy {
		report.LogsTotal++

		var doc models.LogDocument
		if err := json.Unmarshal([]byte(row.blob), &doc); err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("invalid JSON for log %s, skipping", row.date))
			continue
		}

		report.ExerciseLogs += len(doc.Exercises)
		for _, entry := range doc.Exercises {
			report.SetLogs += len(entry.Sets)
		}
		if dryRun {
			continue
		}

		// Old sync clients stamped modification metadata inside the blob;
		// prefer the columns, fall back to the embedded keys.
		lastModified := row.lastModified.String
		if lastModified == "" {
			lastModified = doc.ModifiedAt
		}
		modifiedBy := row.modifiedBy.String
		if modifiedBy == "" {
			modifiedBy = doc.ModifiedBy
		}

		if _, err := decomposeLog(q, row.date, &doc, lastModified, modifiedBy); err != nil {
			return fmt.Errorf("migrate log %s: %w", row.date, err)
		}
	}
	return nil
}

// wrapFlatExercises groups a flat exercise list into synthetic blocks,
// one block per consecutive run of the same mapped block type.
func wrapFlatExercises(exercises []models.Exercise) []models.Block {
	var blocks []models.Block
	var current models.BlockType
	var group []models.Exercise

	flush := func() {
		if len(group) == 0 {
			return
		}
		title := legacyBlockTitles[current]
		if title == "" {
			title = "Block"
		}
		blocks = append(blocks, models.Block{
			BlockType: current,
			Title:     title,
			Exercises: group,
		})
		group = nil
	}

	for _, ex := range exercises {
		exType := string(ex.Type)
		if exType == "" {
			exType = "strength"
		}
		blockType, ok := legacyTypeToBlock[exType]
		if !ok {
			blockType = models.BlockStrength
		}
		if blockType != current {
			flush()
			current = blockType
		}
		group = append(group, ex)
	}
	flush()
	return blocks
}

// validateMigration compares legacy and relational row counts. It runs
// after the legacy tables are renamed, inside the migration transaction.
func validateMigration(q querier) ([]string, error) {
	var issues []string

	var oldPlans, newPlans int
	if err := q.QueryRow(`SELECT COUNT(*) FROM workout_plans_legacy`).Scan(&oldPlans); err != nil {
		return nil, fmt.Errorf("count legacy plans: %w", err)
	}
	if err := q.QueryRow(`SELECT COUNT(*) FROM workout_sessions`).Scan(&newPlans); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	if oldPlans != newPlans {
		issues = append(issues, fmt.Sprintf("plan count mismatch: %d legacy vs %d sessions", oldPlans, newPlans))
	}

	var oldLogs, newLogs int
	if err := q.QueryRow(`SELECT COUNT(*) FROM workout_logs_legacy`).Scan(&oldLogs); err != nil {
		return nil, fmt.Errorf("count legacy logs: %w", err)
	}
	if err := q.QueryRow(`SELECT COUNT(*) FROM workout_session_logs`).Scan(&newLogs); err != nil {
		return nil, fmt.Errorf("count session logs: %w", err)
	}
	if oldLogs != newLogs {
		issues = append(issues, fmt.Sprintf("log count mismatch: %d legacy vs %d session_logs", oldLogs, newLogs))
	}

	var nullBlocks int
	if err := q.QueryRow(`SELECT COUNT(*) FROM planned_exercises WHERE block_id IS NULL`).Scan(&nullBlocks); err != nil {
		return nil, fmt.Errorf("count orphaned exercises: %w", err)
	}
	if nullBlocks > 0 {
		issues = append(issues, fmt.Sprintf("%d exercises with NULL block_id", nullBlocks))
	}

	rows, err := q.Query(`
		SELECT date FROM workout_plans_legacy
		EXCEPT
		SELECT date FROM workout_sessions`)
	if err != nil {
		return nil, fmt.Errorf("compare plan dates: %w", err)
	}
	defer rows.Close()
	var missing []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan missing date: %w", err)
		}
		missing = append(missing, date)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		issues = append(issues, fmt.Sprintf("missing session dates: %v", missing))
	}

	return issues, nil
}
