package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/weatherdesk/weatherdesk/internal/client/models"
	"github.com/weatherdesk/weatherdesk/internal/client/session"
)

var (
	primary  = lipgloss.Color("#7D56F4")
	accent   = lipgloss.Color("#00E5FF")
	okCol    = lipgloss.Color("#00C853")
	warnCol  = lipgloss.Color("#FFD600")
	errorCol = lipgloss.Color("#FF1744")
	muted    = lipgloss.Color("#565F89")

	titleStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(muted).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	okStyle    = lipgloss.NewStyle().Foreground(okCol)
	warnStyle  = lipgloss.NewStyle().Foreground(warnCol)
	errorStyle = lipgloss.NewStyle().Foreground(errorCol)
	mutedStyle = lipgloss.NewStyle().Foreground(muted).Italic(true)
	cityStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
)

type row struct{ key, value string }

func card(title string, rows ...row) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, titleStyle.Render(title))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(r.key), valueStyle.Render(r.value)))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderCurrent(w models.CurrentWeather) string {
	name := w.Name
	if w.Sys.Country != "" {
		name += ", " + w.Sys.Country
	}
	return card(name,
		row{"Conditions", w.Summary()},
		row{"Temperature", fmt.Sprintf("%.1f°C", w.Main.Temp)},
		row{"Feels like", fmt.Sprintf("%.1f°C", w.Main.FeelsLike)},
		row{"Humidity", fmt.Sprintf("%d%%", w.Main.Humidity)},
		row{"Wind", fmt.Sprintf("%.1f m/s", w.Wind.Speed)},
	)
}

// forecastPoints caps how many 3-hour steps are shown.
const forecastPoints = 8

func renderForecast(f models.Forecast) string {
	if len(f.List) == 0 {
		return mutedStyle.Render("No forecast available.")
	}
	rows := make([]row, 0, forecastPoints)
	for i, p := range f.List {
		if i == forecastPoints {
			break
		}
		when := p.DtTxt
		if when == "" {
			when = time.Unix(p.Dt, 0).UTC().Format("2006-01-02 15:04")
		}
		desc := ""
		if len(p.Weather) > 0 {
			desc = p.Weather[0].Description
		}
		rows = append(rows, row{when, fmt.Sprintf("%5.1f°C  %s", p.Main.Temp, desc)})
	}
	return cardStyle.Render(forecastBody(rows))
}

func forecastBody(rows []row) string {
	lines := []string{titleStyle.Render("Forecast")}
	for _, r := range rows {
		lines = append(lines, mutedStyle.Render(r.key)+"  "+r.value)
	}
	return strings.Join(lines, "\n")
}

func aqiLabel(i int) string {
	switch i {
	case 1:
		return "Good"
	case 2:
		return "Fair"
	case 3:
		return "Moderate"
	case 4:
		return "Poor"
	case 5:
		return "Very Poor"
	default:
		return "Unknown"
	}
}

func renderAirQuality(a models.AirQuality) string {
	aqi := a.AQI()
	label := aqiLabel(aqi)
	style := okStyle
	if aqi >= 3 {
		style = warnStyle
	}
	if aqi >= 4 {
		style = errorStyle
	}
	return card("Air quality", row{"AQI", style.Render(fmt.Sprintf("%d (%s)", aqi, label))})
}

func renderHistory(entries []models.HistoryEntry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No searches yet.")
	}
	lines := []string{titleStyle.Render("Recent searches")}
	for _, e := range entries {
		var w models.CurrentWeather
		summary := ""
		if err := json.Unmarshal(e.Weather, &w); err == nil {
			summary = fmt.Sprintf("%.1f°C %s", w.Main.Temp, w.Summary())
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			mutedStyle.Render(e.Date.Local().Format("2006-01-02 15:04")),
			cityStyle.Render(e.City),
			summary,
		))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderProfile(p *models.Profile) string {
	rows := []row{
		{"Username", p.Username},
		{"Email", p.Email},
		{"ID", p.ID},
	}
	if !p.CreatedAt.IsZero() {
		rows = append(rows, row{"Member since", p.CreatedAt.Local().Format("2006-01-02")})
	}
	return card("Profile", rows...)
}

// statusView is everything the status command reports.
type statusView struct {
	serverURL string
	health    *models.Health
	healthErr error
	session   session.Snapshot
	savedAt   time.Time
}

func renderStatus(v statusView) string {
	server := errorStyle.Render("unreachable")
	database := mutedStyle.Render("unknown")
	if v.healthErr == nil && v.health != nil {
		server = okStyle.Render(v.health.Status)
		database = v.health.Database
		if database != "connected" {
			database = warnStyle.Render(database)
		}
	}

	rows := []row{
		{"Server", v.serverURL},
		{"Health", server},
		{"Database", database},
		{"Session", v.session.State.String()},
	}
	if v.session.User != nil {
		rows = append(rows, row{"User", v.session.User.Username})
	}
	if !v.savedAt.IsZero() {
		rows = append(rows, row{"Saved at", v.savedAt.Local().Format(time.RFC3339)})
	}
	if v.session.LastError != "" {
		rows = append(rows, row{"Last error", v.session.LastError})
	}
	return card("Status", rows...)
}

// promptStatus is the short session label shown in the prompt.
func promptStatus(s session.Snapshot) string {
	switch s.State {
	case session.Authenticated:
		if s.User != nil {
			return s.User.Username
		}
		return "authenticated"
	case session.Resolving:
		return "resolving"
	default:
		return "guest"
	}
}
