// Package engine drives the cores through synchronous, lock-step rounds.
package engine

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/sarchlab/mesisim/coherence"
	"github.com/sarchlab/mesisim/insts"
	"github.com/sarchlab/mesisim/tracing"
)

// An Engine runs one worker per core. In each round, every core whose
// instruction source is not yet exhausted issues exactly one instruction
// through the coherence controller; all workers then rendezvous at a
// barrier before any of them starts the next round. A core whose source
// has ended keeps passing through the rounds as a no-op until every source
// is exhausted.
type Engine struct {
	controller *coherence.Controller
	sources    []insts.Source
	tracers    []tracing.Tracer

	checkInvariants bool
	debugOut        io.Writer

	round    atomic.Int64
	finished atomic.Bool
}

// New creates an Engine over the controller, binding one instruction
// source to each core.
func New(controller *coherence.Controller, sources []insts.Source) *Engine {
	if len(sources) != controller.NumCores() {
		panic("need exactly one instruction source per core")
	}

	return &Engine{
		controller: controller,
		sources:    sources,
	}
}

// AcceptTracer registers a tracer that receives a tick mark per round.
// Tracers must be registered before Run.
func (e *Engine) AcceptTracer(t tracing.Tracer) {
	e.tracers = append(e.tracers, t)
}

// EnableInvariantChecks makes the engine verify the coherence invariants
// at every round boundary, aborting the run on a violation.
func (e *Engine) EnableInvariantChecks() {
	e.checkInvariants = true
}

// SetDebugOutput makes the engine dump the memory and all cache lines to w
// after every round.
func (e *Engine) SetDebugOutput(w io.Writer) {
	e.debugOut = w
}

// Round returns the round currently being executed. It is safe to call
// from other goroutines while the engine runs.
func (e *Engine) Round() int {
	return int(e.round.Load())
}

// Finished reports whether the run has completed.
func (e *Engine) Finished() bool {
	return e.finished.Load()
}

// Run executes rounds until every core's source is exhausted, or until the
// first fatal error. It returns after all workers have stopped.
func (e *Engine) Run() error {
	defer e.finished.Store(true)

	exhausted := make([]bool, len(e.sources))

	for round := 1; ; round++ {
		if allTrue(exhausted) {
			return nil
		}

		e.round.Store(int64(round))
		for _, t := range e.tracers {
			t.TraceTick(round)
		}

		if err := e.runRound(exhausted); err != nil {
			return err
		}

		if e.checkInvariants {
			if err := e.controller.CheckInvariants(); err != nil {
				return err
			}
		}

		if e.debugOut != nil {
			e.controller.DumpState(e.debugOut)
		}
	}
}

// runRound lets every active core execute one instruction concurrently and
// waits for all of them at the barrier.
func (e *Engine) runRound(exhausted []bool) error {
	var wg sync.WaitGroup
	var errLock sync.Mutex
	var firstErr error

	for core := range e.sources {
		if exhausted[core] {
			continue
		}

		wg.Add(1)
		go func(core int) {
			defer wg.Done()

			inst, err := e.sources[core].Next()
			if err == io.EOF {
				exhausted[core] = true
				return
			}
			if err == nil {
				_, err = e.controller.Access(core, inst)
			}

			if err != nil {
				errLock.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errLock.Unlock()
			}
		}(core)
	}

	wg.Wait()

	return firstErr
}

func allTrue(flags []bool) bool {
	for _, f := range flags {
		if !f {
			return false
		}
	}

	return true
}
