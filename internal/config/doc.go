// Package config loads and validates application configuration from
// environment variables (prefix SPORT) merged with an optional config.yaml.
// Environment variables take precedence over the file.
package config
