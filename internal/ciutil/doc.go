// Package ciutil detects whether tests are running under a CI provider.
// Integration helpers use it to fail instead of skip when a required
// dependency such as Docker is missing.
package ciutil
