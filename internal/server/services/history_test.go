package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weatherdesk/weatherdesk/internal/common"
	"github.com/weatherdesk/weatherdesk/internal/server/models"
)

func TestHistorySave_Validation(t *testing.T) {
	tests := []struct {
		name    string
		city    string
		weather string
	}{
		{name: "missing city", weather: `{"a":1}`},
		{name: "blank city", city: "  ", weather: `{"a":1}`},
		{name: "missing weather", city: "Paris"},
		{name: "null weather", city: "Paris", weather: "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeHistoryRepo{}
			s := NewHistoryService(nil, &fakeRepoManager{h: repo})

			_, err := s.Save(context.Background(), "u-1", tt.city, json.RawMessage(tt.weather))
			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "City and weather data required", ve.Message)
			assert.Nil(t, repo.created)
		})
	}
}

func TestHistorySave_InvalidJSON(t *testing.T) {
	s := NewHistoryService(nil, &fakeRepoManager{h: &fakeHistoryRepo{}})

	_, err := s.Save(context.Background(), "u-1", "Paris", json.RawMessage(`{oops`))
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestHistorySave_Stores(t *testing.T) {
	repo := &fakeHistoryRepo{}
	s := NewHistoryService(nil, &fakeRepoManager{h: repo})

	_, err := s.Save(context.Background(), "u-1", " Paris ", json.RawMessage(` {"temp":12} `))
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "u-1", repo.created.UserID)
	assert.Equal(t, "Paris", repo.created.City)
	assert.JSONEq(t, `{"temp":12}`, string(repo.created.Weather))
}

func TestHistorySave_StoreFailure(t *testing.T) {
	s := NewHistoryService(nil, &fakeRepoManager{h: &fakeHistoryRepo{err: errors.New("db error: x")}})

	_, err := s.Save(context.Background(), "u-1", "Paris", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, common.ErrInternal)
}

func TestHistoryRecent_UsesLimit(t *testing.T) {
	repo := &fakeHistoryRepo{list: []*models.HistoryEntry{{City: "Rome"}}}
	s := NewHistoryService(nil, &fakeRepoManager{h: repo})

	got, err := s.Recent(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, common.HistoryLimit, repo.limit)
}

func TestHistoryRecent_StoreFailure(t *testing.T) {
	s := NewHistoryService(nil, &fakeRepoManager{h: &fakeHistoryRepo{err: errors.New("boom")}})

	_, err := s.Recent(context.Background(), "u-1")
	assert.ErrorIs(t, err, common.ErrInternal)
}
