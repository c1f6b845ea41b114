// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// RequestPrefix is prepended to request IDs.
var RequestPrefix = "req-"

// SnapshotPrefix is prepended to export snapshot IDs.
var SnapshotPrefix = "snap-"

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// NewRequestID returns a new request ID. Falls back to the bare prefix on the
// (practically unreachable) nanoid error so callers can use it unconditionally.
func NewRequestID() string {
	id, err := GenerateWithPrefix(RequestPrefix)
	if err != nil {
		return RequestPrefix
	}
	return id
}

// NewSnapshotID returns a new snapshot ID, falling back to the bare prefix
// like NewRequestID does.
func NewSnapshotID() string {
	id, err := GenerateWithPrefix(SnapshotPrefix)
	if err != nil {
		return SnapshotPrefix
	}
	return id
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
