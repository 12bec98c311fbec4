// Package models defines server-side rows that are not plain sync payloads.
package models

import "time"

// User owns every synced row. Users are provisioned on their first sync.
type User struct {
	ID           string
	Login        string
	PasswordHash string
	CreatedAt    time.Time
	// LastSeenAt moves on every sync the user makes.
	LastSeenAt time.Time
}
