package insts

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// A Source produces the ordered instruction stream of one core. Next
// returns io.EOF when the stream is exhausted; any other error is fatal to
// the simulation.
type Source interface {
	Next() (Inst, error)
}

// A FileSource reads instructions from a text file, one instruction per
// line. Blank lines are skipped.
type FileSource struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	lineNo  int
}

// OpenFileSource opens the instruction file at path.
func OpenFileSource(path string) (*FileSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening instruction file: %w", err)
	}

	return &FileSource{
		path:    path,
		file:    file,
		scanner: bufio.NewScanner(file),
	}, nil
}

// Next decodes and returns the next instruction in the file.
func (s *FileSource) Next() (Inst, error) {
	for s.scanner.Scan() {
		s.lineNo++
		line := s.scanner.Text()
		if len(line) == 0 {
			continue
		}

		inst, err := Decode(line)
		if err != nil {
			return Inst{}, fmt.Errorf("%s:%d: %w", s.path, s.lineNo, err)
		}

		return inst, nil
	}

	if err := s.scanner.Err(); err != nil {
		return Inst{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	return Inst{}, io.EOF
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	return s.file.Close()
}

// A SliceSource serves a fixed list of instructions. It is mostly useful
// for tests and for driving the simulator programmatically.
type SliceSource struct {
	insts []Inst
	next  int
}

// NewSliceSource creates a SliceSource that serves the given instructions
// in order.
func NewSliceSource(insts ...Inst) *SliceSource {
	return &SliceSource{insts: insts}
}

// Next returns the next instruction, or io.EOF once all instructions have
// been served.
func (s *SliceSource) Next() (Inst, error) {
	if s.next >= len(s.insts) {
		return Inst{}, io.EOF
	}

	inst := s.insts[s.next]
	s.next++

	return inst, nil
}
