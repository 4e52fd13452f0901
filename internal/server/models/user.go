// Package models holds the server-side persistence records.
package models

import (
	"encoding/json"
	"time"
)

// User is a registered account. PasswordHash is a bcrypt hash and is never
// rendered to JSON.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HistoryEntry is one saved weather search. Weather holds the provider
// snapshot exactly as the client submitted it.
type HistoryEntry struct {
	ID      string          `json:"id"`
	UserID  string          `json:"userId"`
	City    string          `json:"city"`
	Weather json.RawMessage `json:"weather"`
	Date    time.Time       `json:"date"`
}
