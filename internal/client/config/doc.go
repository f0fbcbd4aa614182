// Package config loads runtime configuration for the sessionkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the auth server
//	-i int      online status check interval (seconds)
//	-t int      per-request timeout (seconds)
//
// # JSON schema
//
// Intervals go through timex.Duration, so values can be either strings like
// "3s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s"
//	}
package config
