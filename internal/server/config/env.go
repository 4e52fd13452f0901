package config

import (
	"fmt"
	"time"
)

// parseEnv overlays the environment variables the deployment sets:
//
//	PORT                  listen port (binds ":PORT")
//	DATABASE_URL          PostgreSQL DSN, or "memory://"
//	JWT_SECRET            token signing secret
//	TOKEN_TTL             token lifetime, e.g. "24h"
//	OPENWEATHER_API_KEY   provider API key
//	OPENWEATHER_BASE_URL  provider base URL
//	UPSTREAM_TIMEOUT      provider call deadline, e.g. "10s"
//	LOG_LEVEL             debug, info, warn or error
func parseEnv(config *Config, getenv func(string) string) error {
	if port := getenv("PORT"); port != "" {
		config.Addr = ":" + port
	}
	setString(&config.DatabaseDSN, getenv("DATABASE_URL"))
	setString(&config.SecretKey, getenv("JWT_SECRET"))
	setString(&config.WeatherAPIKey, getenv("OPENWEATHER_API_KEY"))
	setString(&config.WeatherBaseURL, getenv("OPENWEATHER_BASE_URL"))
	setString(&config.LogLevel, getenv("LOG_LEVEL"))

	if err := setDuration(&config.TokenTTL, "TOKEN_TTL", getenv); err != nil {
		return err
	}
	return setDuration(&config.UpstreamTimeout, "UPSTREAM_TIMEOUT", getenv)
}

func setDuration(dst *time.Duration, key string, getenv func(string) string) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
