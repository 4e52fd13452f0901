// Package history provides the PostgreSQL-backed weather history repository.
package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/weatherdesk/weatherdesk/internal/dbx"
	"github.com/weatherdesk/weatherdesk/internal/server/models"
)

// PostgresRepository implements history storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts entry. ID and Date are filled in when empty.
func (r *PostgresRepository) Create(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO weather_history (id, user_id, city, weather)
		VALUES ($1, $2, $3, $4)
		RETURNING date
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.UserID, entry.City, []byte(entry.Weather)).Scan(&entry.Date)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*models.HistoryEntry, error) {
	query := ` SELECT id, user_id, city, weather, date FROM weather_history
		WHERE user_id=$1 ORDER BY date DESC LIMIT $2
		`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.HistoryEntry, 0, limit)
	for rows.Next() {
		var (
			item    models.HistoryEntry
			weather []byte
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.City, &weather, &item.Date); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		item.Weather = weather
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
