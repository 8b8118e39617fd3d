// Package testdb provides utilities for database-backed tests: a disposable
// PostgreSQL container and the schema the service expects to find. The
// service itself never creates or migrates its table.
package testdb
