package config

import (
	"fmt"
	"time"
)

func parseEnv(cfg *Config, getenv func(string) string) error {
	setString(&cfg.ServerURL, getenv("WEATHERDESK_API_URL"))
	setString(&cfg.DBPath, getenv("WEATHERDESK_DB"))
	setString(&cfg.LogLevel, getenv("WEATHERDESK_LOG_LEVEL"))

	if v := getenv("WEATHERDESK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WEATHERDESK_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
