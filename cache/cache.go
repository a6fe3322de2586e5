package cache

// A Line is one cache line. While State is Invalid, Addr and Data carry no
// meaning.
type Line struct {
	Addr  uint64
	Data  byte
	State State
}

// A Cache is the private, direct-mapped cache of one core. Each address
// maps to exactly one slot, `addr mod numLines`. The cache itself performs
// no synchronization; all mutation happens inside the coherence
// controller's atomic step.
type Cache struct {
	lines []Line
}

// New creates a cache with numLines direct-mapped lines, all Invalid.
func New(numLines int) *Cache {
	if numLines <= 0 {
		panic("cache must have at least one line")
	}

	return &Cache{lines: make([]Line, numLines)}
}

// NumLines returns the number of lines in the cache.
func (c *Cache) NumLines() int {
	return len(c.lines)
}

// SlotOf returns the slot that the address maps to.
func (c *Cache) SlotOf(addr uint64) int {
	return int(addr % uint64(len(c.lines)))
}

// Line returns the line currently resident in the slot.
func (c *Cache) Line(slot int) Line {
	return c.lines[slot]
}

// SetLine overwrites the line in the slot, replacing whatever was resident.
func (c *Cache) SetLine(slot int, line Line) {
	c.lines[slot] = line
}

// SetState changes only the coherence state of the line in the slot. It is
// used for invalidation and shared-downgrade side effects from peer cores.
func (c *Cache) SetState(slot int, state State) {
	c.lines[slot].State = state
}

// Lines returns a copy of all lines, for snapshots and dumps.
func (c *Cache) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)

	return lines
}
