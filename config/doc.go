// Package config loads database.Config from a YAML file, an optional .env
// file and DB_* environment variables, in increasing order of precedence.
package config
