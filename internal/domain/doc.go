// Package domain contains the task entity and the rules a task must satisfy,
// independent of HTTP and of the database that stores it.
package domain
