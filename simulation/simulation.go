package simulation

import (
	"github.com/sarchlab/mesisim/coherence"
	"github.com/sarchlab/mesisim/datarecording"
	"github.com/sarchlab/mesisim/engine"
	"github.com/sarchlab/mesisim/monitoring"
	"github.com/sarchlab/mesisim/tracing"
)

// A Simulation is one fully assembled run of the simulator.
type Simulation struct {
	id string

	controller *coherence.Controller
	engine     *engine.Engine
	monitor    *monitoring.Monitor
	recorder   datarecording.DataRecorder
	csvBackend *tracing.CSVTracerBackend
}

// ID returns the unique ID of the simulation run.
func (s *Simulation) ID() string {
	return s.id
}

// Controller returns the coherence controller of the simulation.
func (s *Simulation) Controller() *coherence.Controller {
	return s.controller
}

// Engine returns the engine that drives the simulation.
func (s *Simulation) Engine() *engine.Engine {
	return s.engine
}

// StartMonitor starts the monitoring server, if monitoring is enabled, and
// returns its URL. It returns an empty string otherwise.
func (s *Simulation) StartMonitor() string {
	if s.monitor == nil {
		return ""
	}

	return s.monitor.StartServer()
}

// Run executes the simulation to completion.
func (s *Simulation) Run() error {
	return s.engine.Run()
}

// Terminate flushes all the recorded data. It must be called when the
// simulation ends.
func (s *Simulation) Terminate() {
	if s.recorder != nil {
		s.recorder.Flush()
	}

	if s.csvBackend != nil {
		s.csvBackend.Flush()
	}
}
