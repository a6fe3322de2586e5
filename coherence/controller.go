// Package coherence implements the MESI protocol engine that keeps the
// per-core caches and the backing memory coherent.
package coherence

import (
	"fmt"
	"sync"

	"github.com/sarchlab/mesisim/cache"
	"github.com/sarchlab/mesisim/insts"
	"github.com/sarchlab/mesisim/mem"
	"github.com/sarchlab/mesisim/tracing"
)

// A Controller applies instructions to the caches and the memory. Each
// Access call is one atomic coherence step: the eviction check, the
// read/write resolution, the peer-cache side effects, and the trace
// emission all happen under one lock, so no step from another core can
// interleave.
type Controller struct {
	mu      sync.Mutex
	memory  *mem.Storage
	caches  []*cache.Cache
	tracers []tracing.Tracer
}

// NewController creates a Controller over the given memory and caches, one
// cache per core.
func NewController(memory *mem.Storage, caches []*cache.Cache) *Controller {
	if len(caches) == 0 {
		panic("a controller needs at least one core")
	}

	numLines := caches[0].NumLines()
	for _, c := range caches {
		if c.NumLines() != numLines {
			panic("all caches must have the same number of lines")
		}
	}

	return &Controller{memory: memory, caches: caches}
}

// NumCores returns the number of cores the controller manages.
func (c *Controller) NumCores() int {
	return len(c.caches)
}

// AcceptTracer registers a tracer that receives one record per access.
// Tracers must be registered before the simulation starts.
func (c *Controller) AcceptTracer(t tracing.Tracer) {
	c.tracers = append(c.tracers, t)
}

// Access performs one instruction on behalf of a core and returns the
// resolved value. For a read that is the value observed; for a write it is
// the value written.
func (c *Controller) Access(core int, inst insts.Inst) (byte, error) {
	if inst.Addr >= c.memory.Capacity() {
		return 0, fmt.Errorf(
			"core %d: address %d outside memory of size %d",
			core, inst.Addr, c.memory.Capacity())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	slot := c.caches[core].SlotOf(inst.Addr)
	c.evictOnConflict(core, slot, inst.Addr)

	var data byte
	switch inst.Kind {
	case insts.Write:
		data = c.write(core, slot, inst)
	case insts.Read:
		data = c.read(core, slot, inst.Addr)
	default:
		panic(fmt.Sprintf("unknown instruction kind %d", int(inst.Kind)))
	}

	access := tracing.Access{
		Core: core,
		Op:   inst.Kind.String(),
		Addr: inst.Addr,
		Data: data,
	}
	for _, t := range c.tracers {
		t.TraceAccess(access)
	}

	return data, nil
}

// evictOnConflict makes room in the slot when it is resident for a
// different address. Modified and Shared lines are written back to memory
// first; a Shared write-back matters because a read that downgraded a
// Modified peer to Shared leaves its dirty value in the caches only. The
// slot then becomes Invalid so that the read/write resolution assigns the
// proper state.
func (c *Controller) evictOnConflict(core, slot int, addr uint64) {
	line := c.caches[core].Line(slot)
	if line.State == cache.Invalid || line.Addr == addr {
		return
	}

	if line.State == cache.Modified || line.State == cache.Shared {
		if err := c.memory.Write(line.Addr, line.Data); err != nil {
			panic(err)
		}
	}

	c.caches[core].SetState(slot, cache.Invalid)
}

// write installs the value as Modified and invalidates every peer copy of
// the address.
func (c *Controller) write(core, slot int, inst insts.Inst) byte {
	c.caches[core].SetLine(slot, cache.Line{
		Addr:  inst.Addr,
		Data:  inst.Data,
		State: cache.Modified,
	})

	for i, peer := range c.caches {
		if i == core {
			continue
		}

		line := peer.Line(slot)
		if line.State != cache.Invalid && line.Addr == inst.Addr {
			peer.SetState(slot, cache.Invalid)
		}
	}

	return inst.Data
}

// read resolves a read access. A hit returns the resident value without a
// state change. A miss first scans the peers: every valid peer copy is
// downgraded to Shared and its value taken, and this core's line becomes
// Shared as well. If no peer holds the address, the value is fetched from
// memory into an Exclusive line.
func (c *Controller) read(core, slot int, addr uint64) byte {
	own := c.caches[core]

	line := own.Line(slot)
	if line.State != cache.Invalid && line.Addr == addr {
		return line.Data
	}

	var data byte
	found := false
	for i, peer := range c.caches {
		if i == core {
			continue
		}

		peerLine := peer.Line(slot)
		if peerLine.State == cache.Invalid || peerLine.Addr != addr {
			continue
		}

		data = peerLine.Data
		peer.SetState(slot, cache.Shared)
		found = true
	}

	if found {
		own.SetLine(slot, cache.Line{
			Addr:  addr,
			Data:  data,
			State: cache.Shared,
		})

		return data
	}

	value, err := c.memory.Read(addr)
	if err != nil {
		panic(err)
	}

	own.SetLine(slot, cache.Line{
		Addr:  addr,
		Data:  value,
		State: cache.Exclusive,
	})

	return value
}

// Snapshot returns a consistent copy of every core's cache lines and the
// memory content.
func (c *Controller) Snapshot() ([][]cache.Line, []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	caches := make([][]cache.Line, len(c.caches))
	for i, cc := range c.caches {
		caches[i] = cc.Lines()
	}

	return caches, c.memory.Dump()
}
