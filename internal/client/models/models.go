// Package models holds the client-side view of API payloads.
package models

import (
	"encoding/json"
	"time"
)

// Profile is the authenticated user as returned by /user/profile.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type HistoryEntry struct {
	ID      string          `json:"id"`
	UserID  string          `json:"userId"`
	City    string          `json:"city"`
	Weather json.RawMessage `json:"weather"`
	Date    time.Time       `json:"date"`
}

type Health struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
}
