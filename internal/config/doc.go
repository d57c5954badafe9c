// Package config loads modloc project configuration and process settings.
//
// Project configuration is a YAML mapping. Only the "paths" key is
// interpreted: its entries are expanded (leading "~"), made absolute against
// the working directory and symlink-resolved while loading. Every other key
// is passed through untouched for the callers that understand it.
//
// Process settings (log level, log format, worker count) come from the
// environment and an optional .env file; see LoadEnv.
package config
