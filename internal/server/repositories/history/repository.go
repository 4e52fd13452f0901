package history

import (
	"context"

	"github.com/weatherdesk/weatherdesk/internal/server/models"
)

// Repository stores weather searches per user.
type Repository interface {
	Create(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error)
	// ListRecent returns at most limit entries for userID, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]*models.HistoryEntry, error)
}
