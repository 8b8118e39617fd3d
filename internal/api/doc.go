// Package api handles incoming HTTP requests, request validation, and
// response formatting. It adapts HTTP semantics onto the store.TaskStore
// contract and owns the only error-to-status mapping in the service.
package api
