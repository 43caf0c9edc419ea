// Package database manages the PostgreSQL connection pool backing the
// snapshot journal.
package database
