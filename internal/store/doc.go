// Package store defines the persistence contract for tasks and the error
// kinds every implementation reports. Handlers depend on this package only,
// never on a concrete database.
package store
