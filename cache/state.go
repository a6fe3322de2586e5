// Package cache models the per-core, direct-mapped caches and the MESI
// state of their lines.
package cache

import "fmt"

// A State is the MESI coherence state of a cache line.
type State int

// The four MESI states.
const (
	Invalid State = iota
	Shared
	Exclusive
	Modified
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Invalid:
		return "Invalid"
	case Shared:
		return "Shared"
	case Exclusive:
		return "Exclusive"
	case Modified:
		return "Modified"
	default:
		panic(fmt.Sprintf("unknown MESI state %d", int(s)))
	}
}
