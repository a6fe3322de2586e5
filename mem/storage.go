// Package mem provides the backing memory shared by all simulated cores.
package mem

import "fmt"

// A Storage keeps the data of the simulated memory.
//
// Storage is a flat, byte-addressable store. It performs no
// synchronization of its own: every access goes through the coherence
// controller, which serializes all reads and writes within its atomic
// coherence step.
type Storage struct {
	data []byte
}

// NewStorage creates a zero-initialized storage with the given capacity in
// bytes.
func NewStorage(capacity uint64) *Storage {
	return &Storage{data: make([]byte, capacity)}
}

// Capacity returns the number of addressable bytes.
func (s *Storage) Capacity() uint64 {
	return uint64(len(s.data))
}

// Read returns the byte at the given address.
func (s *Storage) Read(addr uint64) (byte, error) {
	if addr >= uint64(len(s.data)) {
		return 0, fmt.Errorf(
			"accessing address %d beyond the storage capacity %d",
			addr, len(s.data))
	}

	return s.data[addr], nil
}

// Write stores a byte at the given address.
func (s *Storage) Write(addr uint64, value byte) error {
	if addr >= uint64(len(s.data)) {
		return fmt.Errorf(
			"accessing address %d beyond the storage capacity %d",
			addr, len(s.data))
	}

	s.data[addr] = value

	return nil
}

// Dump returns a copy of the whole memory content.
func (s *Storage) Dump() []byte {
	dump := make([]byte, len(s.data))
	copy(dump, s.data)

	return dump
}
