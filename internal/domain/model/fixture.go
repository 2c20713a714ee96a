// Package model contains the typed schemas of the dashboard's JSON fixtures.
//
// Every fixture declares the top-level keys it requires and validates its own
// invariants, so that the fetch boundary can reject malformed data instead of
// passing half-filled structs to the views.
package model

import (
	"errors"
	"fmt"
)

// Fixture is implemented by every decoded fixture type.
type Fixture interface {
	// RequiredKeys lists the top-level JSON keys that must be present.
	RequiredKeys() []string
	// Validate checks semantic invariants after decoding.
	Validate() error
}

// ErrInvalidFixture is wrapped by every Validate failure.
var ErrInvalidFixture = errors.New("invalid fixture")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFixture, fmt.Sprintf(format, args...))
}

// Float returns a pointer to v. Handy for nullable metric fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
