package common

const (
	// TokenStorageKey is the key the client persists its bearer token under.
	TokenStorageKey = "weatherAppToken"

	// AuthorizationHeader carries "Bearer <token>" on protected requests.
	AuthorizationHeader = "Authorization"

	// HistoryLimit is the number of history entries returned to a user.
	HistoryLimit = 10
)
