package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/weatherdesk/weatherdesk/internal/common"
	"github.com/weatherdesk/weatherdesk/internal/dbx"
	"github.com/weatherdesk/weatherdesk/internal/server/models"
	"github.com/weatherdesk/weatherdesk/internal/server/repositories/repomanager"
)

// HistoryService records weather searches and lists the most recent ones.
type HistoryService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	limit       int
}

func NewHistoryService(db dbx.DBTX, m repomanager.RepositoryManager) *HistoryService {
	return &HistoryService{db: db, repomanager: m, limit: common.HistoryLimit}
}

// Save stores a snapshot of weather for city on behalf of userID.
func (s *HistoryService) Save(ctx context.Context, userID, city string, weather json.RawMessage) (*models.HistoryEntry, error) {
	city = strings.TrimSpace(city)
	trimmed := bytes.TrimSpace(weather)
	if city == "" || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, common.NewValidationError("City and weather data required")
	}
	if !json.Valid(trimmed) {
		return nil, common.NewValidationError("Weather data must be valid JSON")
	}

	entry, err := s.repomanager.History(s.db).Create(ctx, &models.HistoryEntry{
		UserID:  userID,
		City:    city,
		Weather: json.RawMessage(trimmed),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return entry, nil
}

// Recent returns the user's latest searches, newest first.
func (s *HistoryService) Recent(ctx context.Context, userID string) ([]*models.HistoryEntry, error) {
	entries, err := s.repomanager.History(s.db).ListRecent(ctx, userID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return entries, nil
}
