// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Ten tables: plan side, log side, clients, and sync metadata.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	_, err := d.db.Exec(planSchema + logSchema + syncSchema)
	return err
}

// planSchema holds the planned-workout tables: one session per date,
// ordered blocks, exercises keyed uniquely per session, checklist items.
const planSchema = `
CREATE TABLE IF NOT EXISTS workout_sessions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	date          TEXT NOT NULL UNIQUE,
	day_name      TEXT NOT NULL,
	location      TEXT,
	phase         TEXT,
	duration_min  INTEGER,
	last_modified TEXT NOT NULL,
	modified_by   TEXT,
	extra         TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_date ON workout_sessions(date);
CREATE INDEX IF NOT EXISTS idx_sessions_modified ON workout_sessions(last_modified);

CREATE TABLE IF NOT EXISTS session_blocks (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id     INTEGER NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	block_type     TEXT NOT NULL,
	title          TEXT,
	duration_min   INTEGER,
	rest_guidance  TEXT,
	rounds         INTEGER,
	UNIQUE(session_id, position)
);

CREATE INDEX IF NOT EXISTS idx_blocks_session ON session_blocks(session_id);

CREATE TABLE IF NOT EXISTS planned_exercises (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id      INTEGER NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
	block_id        INTEGER NOT NULL REFERENCES session_blocks(id) ON DELETE CASCADE,
	exercise_key    TEXT NOT NULL,
	position        INTEGER NOT NULL,
	name            TEXT NOT NULL,
	exercise_type   TEXT NOT NULL,
	target_sets     INTEGER,
	target_reps     TEXT,
	target_duration_min INTEGER,
	target_duration_sec INTEGER,
	rounds          INTEGER,
	work_duration_sec   INTEGER,
	rest_duration_sec   INTEGER,
	guidance_note   TEXT,
	hide_weight     INTEGER DEFAULT 0,
	show_time       INTEGER DEFAULT 0,
	extra           TEXT,
	UNIQUE(session_id, exercise_key)
);

CREATE INDEX IF NOT EXISTS idx_exercises_session ON planned_exercises(session_id);
CREATE INDEX IF NOT EXISTS idx_exercises_name ON planned_exercises(name);
CREATE INDEX IF NOT EXISTS idx_exercises_type ON planned_exercises(exercise_type);

CREATE TABLE IF NOT EXISTS checklist_items (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	exercise_id     INTEGER NOT NULL REFERENCES planned_exercises(id) ON DELETE CASCADE,
	position        INTEGER NOT NULL,
	item_text       TEXT NOT NULL,
	UNIQUE(exercise_id, position)
);

CREATE INDEX IF NOT EXISTS idx_checklist_items_exercise ON checklist_items(exercise_id);
`

// logSchema holds the recorded-result tables. Log rows link to plan rows
// by point-in-time lookup; replacing a plan nulls the link rather than
// blocking the write.
const logSchema = `
CREATE TABLE IF NOT EXISTS workout_session_logs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id      INTEGER REFERENCES workout_sessions(id) ON DELETE SET NULL,
	date            TEXT NOT NULL UNIQUE,
	pain_discomfort TEXT,
	general_notes   TEXT,
	last_modified   TEXT NOT NULL,
	modified_by     TEXT,
	extra           TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_session_logs_date ON workout_session_logs(date);
CREATE INDEX IF NOT EXISTS idx_session_logs_modified ON workout_session_logs(last_modified);

CREATE TABLE IF NOT EXISTS exercise_logs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	session_log_id  INTEGER NOT NULL REFERENCES workout_session_logs(id) ON DELETE CASCADE,
	exercise_id     INTEGER REFERENCES planned_exercises(id) ON DELETE SET NULL,
	exercise_key    TEXT NOT NULL,
	completed       INTEGER DEFAULT 0,
	user_note       TEXT,
	duration_min    REAL,
	avg_hr          INTEGER,
	max_hr          INTEGER,
	extra           TEXT
);

CREATE INDEX IF NOT EXISTS idx_exercise_logs_session ON exercise_logs(session_log_id);
CREATE INDEX IF NOT EXISTS idx_exercise_logs_exercise ON exercise_logs(exercise_id);

CREATE TABLE IF NOT EXISTS checklist_log_items (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	exercise_log_id INTEGER NOT NULL REFERENCES exercise_logs(id) ON DELETE CASCADE,
	item_text       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checklist_log_items_exercise ON checklist_log_items(exercise_log_id);

CREATE TABLE IF NOT EXISTS set_logs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	exercise_log_id INTEGER NOT NULL REFERENCES exercise_logs(id) ON DELETE CASCADE,
	set_num         INTEGER NOT NULL,
	weight          REAL,
	reps            INTEGER,
	rpe             REAL,
	unit            TEXT DEFAULT 'lbs',
	duration_sec    REAL,
	completed       INTEGER DEFAULT 0,
	extra           TEXT
);

CREATE INDEX IF NOT EXISTS idx_set_logs_exercise ON set_logs(exercise_log_id);
`

// syncSchema holds sync bookkeeping: known clients and the server-side
// watermark row.
const syncSchema = `
CREATE TABLE IF NOT EXISTS clients (
	id TEXT PRIMARY KEY,
	name TEXT,
	last_seen_at TEXT
);

CREATE TABLE IF NOT EXISTS meta_sync (
	key TEXT PRIMARY KEY,
	value TEXT
);
`
