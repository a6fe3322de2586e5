// Package insts defines the instruction model of the simulator and the
// sources that feed instructions to the cores.
package insts

import "fmt"

// A Kind distinguishes read accesses from write accesses.
type Kind int

// The two instruction kinds the simulator understands.
const (
	Read Kind = iota
	Write
)

// String returns the mnemonic of the instruction kind, as it appears in
// instruction files.
func (k Kind) String() string {
	switch k {
	case Read:
		return "RD"
	case Write:
		return "WR"
	default:
		panic(fmt.Sprintf("unknown instruction kind %d", int(k)))
	}
}

// An Inst is one decoded instruction. Data is only meaningful for Write
// instructions.
type Inst struct {
	Kind Kind
	Addr uint64
	Data byte
}
