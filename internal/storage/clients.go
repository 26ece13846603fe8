// ABOUTME: Tracks sync clients: registration, last-seen upserts, and listing.
// ABOUTME: Client names are sticky; only explicit registration replaces them.

package storage

import (
	"fmt"

	"github.com/harperreed/coach/internal/models"
)

// DefaultClientName derives the fallback display name for an unnamed client.
func DefaultClientName(clientID string) string {
	short := clientID
	if len(short) > 8 {
		short = short[:8]
	}
	return "Client-" + short
}

// UpsertClient records that a client was seen. A new client gets name (or the
// derived default when empty); an existing client keeps its stored name.
func (d *DB) UpsertClient(clientID, name, seenAt string) error {
	if name == "" {
		name = DefaultClientName(clientID)
	}
	_, err := d.db.Exec(`
		INSERT INTO clients (id, name, last_seen_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_seen_at = excluded.last_seen_at,
			name = CASE
				WHEN clients.name IS NOT NULL AND clients.name != '' THEN clients.name
				ELSE excluded.name
			END
	`, clientID, name, seenAt)
	if err != nil {
		return fmt.Errorf("upsert client: %w", err)
	}
	return nil
}

// RegisterClient stores a client with the given name, replacing any previous
// name. An empty name falls back to the derived default.
func (d *DB) RegisterClient(clientID, name, seenAt string) error {
	if name == "" {
		name = DefaultClientName(clientID)
	}
	_, err := d.db.Exec(`
		INSERT INTO clients (id, name, last_seen_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			last_seen_at = excluded.last_seen_at
	`, clientID, name, seenAt)
	if err != nil {
		return fmt.Errorf("register client: %w", err)
	}
	return nil
}

// ListClients returns all known clients, most recently seen first.
func (d *DB) ListClients() ([]models.Client, error) {
	rows, err := d.db.Query(`
		SELECT id, name, last_seen_at
		FROM clients
		ORDER BY last_seen_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		var name, lastSeen any
		if err := rows.Scan(&c.ID, &name, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		if s, ok := name.(string); ok {
			c.Name = s
		}
		if s, ok := lastSeen.(string); ok {
			c.LastSeenAt = s
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
