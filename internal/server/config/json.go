package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/weatherdesk/weatherdesk/internal/flagx"
	"github.com/weatherdesk/weatherdesk/internal/timex"
)

// JsonConfig is the on-disk shape of the -c/-config file. Durations accept
// "24h" style strings or integer nanoseconds.
type JsonConfig struct {
	Addr            string         `json:"addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	SecretKey       string         `json:"secret_key"`
	TokenTTL        timex.Duration `json:"token_ttl"`
	WeatherAPIKey   string         `json:"weather_api_key"`
	WeatherBaseURL  string         `json:"weather_base_url"`
	UpstreamTimeout timex.Duration `json:"upstream_timeout"`
	LogLevel        string         `json:"log_level"`
}

// parseJSON overlays fields present in the JSON file named by -c/-config.
// Absent or zero fields keep their current value.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.Addr, c.Addr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.WeatherAPIKey, c.WeatherAPIKey)
	setString(&config.WeatherBaseURL, c.WeatherBaseURL)
	setString(&config.LogLevel, c.LogLevel)
	if c.TokenTTL.Duration > 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.UpstreamTimeout.Duration > 0 {
		config.UpstreamTimeout = c.UpstreamTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
