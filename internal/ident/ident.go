// Package ident hands out process-unique node and display identifiers.
package ident

import (
	"strconv"
	"sync/atomic"
)

// Id identifies a workspace node (or, from a separate allocator, an image display slot).
type Id uint32

// Missing is the zero value and never handed out by an Allocator.
const Missing Id = 0

func (id Id) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Parse reads the decimal representation produced by String.
func Parse(text string) (Id, error) {
	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return Missing, err
	}
	return Id(n), nil
}

// Allocator is a monotonic counter safe for concurrent use.
// Each workspace owns its own instances so that tests stay isolated.
type Allocator struct {
	last atomic.Uint32
}

func New() *Allocator {
	return &Allocator{}
}

// Next returns a fresh identifier, starting at 1. Wraparound is not handled.
func (a *Allocator) Next() Id {
	return Id(a.last.Add(1))
}
