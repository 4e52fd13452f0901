package config

import (
	"flag"
	"io"

	"github.com/weatherdesk/weatherdesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters args down to the flags it knows about, using
// flagx.FilterArgs, so -c/-config and foreign flags are ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-f", "-t", "-l"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the REST API")
	fs.StringVar(&cfg.DBPath, "f", cfg.DBPath, "local session database file")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
