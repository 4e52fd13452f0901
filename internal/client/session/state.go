package session

import "github.com/weatherdesk/weatherdesk/internal/client/models"

// State is the derived authentication state of the client.
type State int

const (
	// Unauthenticated: no token.
	Unauthenticated State = iota
	// Resolving: a token is held and its profile fetch is in flight.
	Resolving
	// Authenticated: the profile fetch for the current token succeeded.
	Authenticated
	// Invalid: the current token was rejected. Transient; the controller
	// purges the token and settles in Unauthenticated immediately after.
	Invalid
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Resolving:
		return "resolving"
	case Authenticated:
		return "authenticated"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	State     State
	Token     string
	User      *models.Profile
	Loading   bool
	LastError string
}

// Result is what Login and Register report to the caller. Callers must check
// Success; failures are not returned as errors.
type Result struct {
	Success bool
	Message string
}
