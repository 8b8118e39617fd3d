// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional .env file. It provides type-safe
// access to the server, database and metrics settings while keeping
// configuration details separate from business logic.
package config
