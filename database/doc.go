// Package database manages the Bun connection used by repositories: dialect
// and driver selection, pool settings, health checks, query logging hooks,
// SQL error classification and the model registry.
package database
