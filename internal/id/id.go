// Package id generates and checks transaction identifiers.
package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Prefix marks every transaction ID.
const Prefix = "tx_"

// New returns a fresh transaction ID like "tx_0b6f0c1e-...".
func New() string {
	return Prefix + uuid.NewString()
}

// Parse checks that s is a transaction ID and returns its UUID.
func Parse(s string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(s, Prefix)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid transaction ID %q: missing %s prefix", s, Prefix)
	}
	u, err := uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid transaction ID %q: %w", s, err)
	}
	return u, nil
}

// Valid reports whether s is a well-formed transaction ID.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}
