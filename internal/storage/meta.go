// ABOUTME: Key/value sync metadata, currently just the server watermark.
// ABOUTME: The watermark is the timestamp of the last applied push.

package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

const lastServerSyncKey = "last_server_sync_time"

// LastServerSyncTime returns the sync watermark, or "" when no push has
// ever been applied.
func (d *DB) LastServerSyncTime() (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM meta_sync WHERE key = ?`, lastServerSyncKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read sync watermark: %w", err)
	}
	return value, nil
}

// SetLastServerSyncTime stamps the sync watermark.
func (d *DB) SetLastServerSyncTime(ts string) error {
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO meta_sync (key, value)
		VALUES (?, ?)
	`, lastServerSyncKey, ts)
	if err != nil {
		return fmt.Errorf("write sync watermark: %w", err)
	}
	return nil
}
