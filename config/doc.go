// Package config loads named translator profiles from YAML or JSON files,
// with overrides from environment variables.
package config
