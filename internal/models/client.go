// ABOUTME: Client model for devices that register and sync against the server.
// ABOUTME: Tracks identity, display name, and last activity timestamp.
package models

// Client is a sync participant identified by a stable client ID.
type Client struct {
	ID         string
	Name       string
	LastSeenAt string
}
