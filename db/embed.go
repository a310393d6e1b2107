// Package db provides embedded database schemas and the seed catalog.
package db

import _ "embed"

// Schema contains the PostgreSQL DDL for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SQLiteSchema contains the DDL for the SQLite favorites store.
//
//go:embed migrations/sqlite/001_favorites.sql
var SQLiteSchema string

// Products is the default product catalog as a JSON array.
//
//go:embed seed/products.json
var Products []byte
