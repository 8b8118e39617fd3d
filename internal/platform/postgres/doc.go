// Package postgres provides the PostgreSQL connection pool and the
// PostgreSQL implementation of the store.TaskStore interface.
// It handles the details of connection checkout and release, statement
// execution, and mapping between database rows and domain entities.
package postgres
