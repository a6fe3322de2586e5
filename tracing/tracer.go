// Package tracing collects the trace of a simulation: one record per
// resolved access, plus one tick mark per lock-step round.
package tracing

// An Access describes one resolved memory access. Op is the instruction
// mnemonic, "RD" or "WR". Data is the value read or written.
type Access struct {
	Core int
	Op   string
	Addr uint64
	Data byte
}

// A Tracer consumes the trace of a simulation.
//
// TraceTick is called by the scheduler at the start of each round, while no
// access is in flight. TraceAccess is called from inside the coherence
// controller's critical section, so calls never overlap each other or a
// tick. Tracers therefore need no locking of their own.
type Tracer interface {
	TraceTick(round int)
	TraceAccess(access Access)
}
