// Package types defines the Store and Table interfaces, entity types,
// and standard error types for the codelink storage system.
package types
