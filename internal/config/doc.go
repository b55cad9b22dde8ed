// Package config loads, validates, and hot-reloads the healthboardd
// YAML configuration. Secrets (API keys, webhook URLs) are never stored in
// the file; the config names the environment variables that hold them.
package config
