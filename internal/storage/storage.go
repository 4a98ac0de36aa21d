// Package storage provides the durable key/value storage that the session
// layer persists its credential and cached profile through.
//
// The contract is deliberately small: string keys, string values, no
// transactions. Two implementations are provided: [File], which keeps one
// file per key under a private directory, and [Memory], for tests and for
// callers that do not want credentials written to disk.
package storage

import "errors"

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Store is a string-valued key/value store.
//
// Implementations must be safe for concurrent use: the request pipeline
// reads the credential on every outbound call, while login, logout, and
// observed auth expiry write concurrently from other goroutines.
type Store interface {
	// Get returns the value stored under key, or [ErrNotFound].
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes the value stored under key. Deleting an absent key
	// is not an error.
	Delete(key string) error
}
