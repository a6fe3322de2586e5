// Package simulation assembles the memory, the caches, the coherence
// controller, and the engine into a runnable simulation.
package simulation

import (
	"io"

	"github.com/rs/xid"

	"github.com/sarchlab/mesisim/cache"
	"github.com/sarchlab/mesisim/coherence"
	"github.com/sarchlab/mesisim/datarecording"
	"github.com/sarchlab/mesisim/engine"
	"github.com/sarchlab/mesisim/insts"
	"github.com/sarchlab/mesisim/mem"
	"github.com/sarchlab/mesisim/monitoring"
	"github.com/sarchlab/mesisim/tracing"
)

// Builder can be used to build a simulation. The defaults reproduce the
// smallest interesting system: two cores with two cache lines each over 24
// bytes of memory.
type Builder struct {
	cacheSize  int
	memorySize uint64
	sources    []insts.Source

	consoleTraceOut io.Writer
	csvTracePath    string
	dbTracePath     string
	debugOut        io.Writer

	invariantChecks bool
	monitorOn       bool
	monitorPort     int
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		cacheSize:  2,
		memorySize: 24,
	}
}

// WithCacheSize sets the number of direct-mapped lines per core.
func (b Builder) WithCacheSize(numLines int) Builder {
	b.cacheSize = numLines
	return b
}

// WithMemorySize sets the number of addressable bytes of backing memory.
func (b Builder) WithMemorySize(size uint64) Builder {
	b.memorySize = size
	return b
}

// WithSources binds one instruction source to each core. The core count is
// the number of sources.
func (b Builder) WithSources(sources ...insts.Source) Builder {
	b.sources = sources
	return b
}

// WithConsoleTrace makes the simulation render the trace as text to w.
func (b Builder) WithConsoleTrace(w io.Writer) Builder {
	b.consoleTraceOut = w
	return b
}

// WithCSVTrace makes the simulation record the trace into a CSV file.
func (b Builder) WithCSVTrace(path string) Builder {
	b.csvTracePath = path
	return b
}

// WithDBTrace makes the simulation record the trace into an SQLite
// database at the given path (without the .sqlite3 suffix).
func (b Builder) WithDBTrace(path string) Builder {
	b.dbTracePath = path
	return b
}

// WithInvariantChecks makes the simulation verify the MESI invariants at
// every round boundary.
func (b Builder) WithInvariantChecks() Builder {
	b.invariantChecks = true
	return b
}

// WithDebugOutput makes the simulation dump memory and cache contents to w
// after every round.
func (b Builder) WithDebugOutput(w io.Writer) Builder {
	b.debugOut = w
	return b
}

// WithMonitor enables the HTTP monitoring server.
func (b Builder) WithMonitor() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

func (b Builder) parametersMustBeValid() {
	if len(b.sources) == 0 {
		panic("a simulation needs at least one core with a source")
	}

	if b.cacheSize <= 0 {
		panic("cache size must be positive")
	}

	if b.memorySize == 0 {
		panic("memory size must be positive")
	}

	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{id: xid.New().String()}

	memory := mem.NewStorage(b.memorySize)
	caches := make([]*cache.Cache, len(b.sources))
	for i := range caches {
		caches[i] = cache.New(b.cacheSize)
	}

	s.controller = coherence.NewController(memory, caches)
	s.engine = engine.New(s.controller, b.sources)

	b.setUpTracers(s)

	if b.invariantChecks {
		s.engine.EnableInvariantChecks()
	}

	if b.debugOut != nil {
		s.engine.SetDebugOutput(b.debugOut)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().WithPortNumber(b.monitorPort)
		s.monitor.RegisterController(s.controller)
		s.monitor.RegisterEngine(s.engine)
	}

	return s
}

func (b Builder) setUpTracers(s *Simulation) {
	var tracers []tracing.Tracer

	if b.consoleTraceOut != nil {
		tracers = append(tracers, tracing.NewConsoleTracer(b.consoleTraceOut))
	}

	if b.csvTracePath != "" {
		backend := tracing.NewCSVTracerBackend(b.csvTracePath)
		backend.Init()
		s.csvBackend = backend
		tracers = append(tracers, backend)
	}

	if b.dbTracePath != "" {
		s.recorder = datarecording.New(b.dbTracePath)
		tracers = append(tracers, tracing.NewDBTracer(s.recorder))
	}

	for _, t := range tracers {
		s.controller.AcceptTracer(t)
		s.engine.AcceptTracer(t)
	}
}
