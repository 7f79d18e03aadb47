// Package migrations contains all database migration files.
// Each migration file uses init() to call migration.Register().
// This package is blank-imported by cmd/shopctl so every migration
// is registered before any CLI command runs.
package migrations
