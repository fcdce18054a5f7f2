// Package idgen provides pluggable ID generation for the selection engine.
//
// Constructors across the repo accept a Generator, making the ID strategy
// a startup-time decision rather than a compile-time one. Committed
// regions use Prefixed("sel_", Default).
package idgen

import (
	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator that produces RFC 9562 UUID v7 strings.
// Time-sortable and globally unique.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID.
// Useful for type-scoped identifiers (e.g. "sel_", "evt_").
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Default is the repo default: UUIDv7 (RFC 9562).
var Default Generator = UUIDv7()
