// Package config loads runtime configuration for the weatherdesk terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment: WEATHERDESK_API_URL, WEATHERDESK_DB, WEATHERDESK_TIMEOUT,
//     WEATHERDESK_LOG_LEVEL. A .env file in the working directory is loaded
//     first when present.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the REST API, including the /api prefix
//	-f string     path of the local SQLite file holding the session token
//	-t duration   per-request timeout (e.g., "10s")
//	-l string     log level
//
// # JSON schema
//
// Durations accept strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://localhost:8080/api",
//	  "db_path": "weatherdesk.db",
//	  "request_timeout": "10s",
//	  "log_level": "warn"
//	}
package config
