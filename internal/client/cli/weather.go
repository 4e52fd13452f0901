package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/weatherdesk/weatherdesk/internal/client/client"
	"github.com/weatherdesk/weatherdesk/internal/client/models"
)

// Weather shows current conditions for city, then the forecast and air
// quality at the returned coordinates, and records the search. Only the
// current-weather lookup is fatal; the rest degrade to a warning.
func (a *App) Weather(ctx context.Context, city string) error {
	return a.protected(ctx, func(ctx context.Context, token string) error {
		raw, err := a.api.CurrentWeather(ctx, token, city)
		if err != nil {
			return err
		}
		var cur models.CurrentWeather
		if err := json.Unmarshal(raw, &cur); err != nil {
			return fmt.Errorf("decode current weather: %w", err)
		}
		fmt.Fprintln(a.out, renderCurrent(cur))

		lat, lon := cur.Coord.Lat, cur.Coord.Lon

		if body, err := a.api.Forecast(ctx, token, lat, lon); err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				return err
			}
			a.warn("forecast unavailable", err)
		} else {
			var f models.Forecast
			if err := json.Unmarshal(body, &f); err != nil {
				a.warn("forecast unreadable", err)
			} else {
				fmt.Fprintln(a.out, renderForecast(f))
			}
		}

		if body, err := a.api.AirQuality(ctx, token, lat, lon); err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				return err
			}
			a.warn("air quality unavailable", err)
		} else {
			var aq models.AirQuality
			if err := json.Unmarshal(body, &aq); err != nil {
				a.warn("air quality unreadable", err)
			} else {
				fmt.Fprintln(a.out, renderAirQuality(aq))
			}
		}

		if err := a.api.SaveHistory(ctx, token, city, raw); err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				return err
			}
			a.warn("search not saved", err)
		}
		return nil
	})
}

// History lists the most recent searches, newest first.
func (a *App) History(ctx context.Context) error {
	return a.protected(ctx, func(ctx context.Context, token string) error {
		entries, err := a.api.History(ctx, token)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, renderHistory(entries))
		return nil
	})
}

// Status reports server health and the local session. It works logged out.
func (a *App) Status(ctx context.Context) error {
	v := statusView{
		serverURL: a.config.ServerURL,
		session:   a.session.Snapshot(),
	}
	v.health, v.healthErr = a.api.Health(ctx)
	if v.healthErr != nil {
		a.logger.Debug(ctx, "health check failed", "error", v.healthErr)
	}

	if v.session.Token != "" {
		if t, ok, err := a.tokens.SavedAt(ctx); err == nil && ok {
			v.savedAt = t
		}
	}

	fmt.Fprintln(a.out, renderStatus(v))
	return nil
}

func (a *App) warn(what string, err error) {
	fmt.Fprintln(a.out, warnStyle.Render(what+": "+describe(err)))
}
