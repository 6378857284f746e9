// Package config loads server settings from a config file and TASKLOG_*
// environment variables through viper, falls back to the legacy unprefixed
// names (PORT, JWT_SECRET, BASIC_AUTH_USER, ...), and validates the result.
package config
