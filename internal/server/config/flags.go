package config

import (
	"flag"
	"io"

	"github.com/weatherdesk/weatherdesk/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-d string     PostgreSQL DSN, or "memory://"
//	-s string     token signing secret
//	-t duration   token lifetime (e.g., "24h")
//	-k string     OpenWeatherMap API key
//	-w string     OpenWeatherMap base URL
//	-u duration   upstream call timeout
//	-l string     log level
//
// Arguments are filtered with flagx.FilterArgs first so -c/-config and any
// unknown flags do not abort parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-k", "-w", "-u", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token lifetime")
	fs.StringVar(&config.WeatherAPIKey, "k", config.WeatherAPIKey, "OpenWeatherMap API key")
	fs.StringVar(&config.WeatherBaseURL, "w", config.WeatherBaseURL, "OpenWeatherMap base URL")
	fs.DurationVar(&config.UpstreamTimeout, "u", config.UpstreamTimeout, "upstream call timeout")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
