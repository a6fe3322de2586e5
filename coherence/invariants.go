package coherence

import (
	"fmt"

	"github.com/sarchlab/mesisim/cache"
)

// CheckInvariants verifies the system-wide MESI invariants: at most one
// Modified copy of an address, and an Exclusive copy coexisting with no
// other valid copy. It returns a descriptive error on the first violation.
func (c *Controller) CheckInvariants() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	modified := make(map[uint64]int)
	valid := make(map[uint64]int)
	exclusive := make(map[uint64]bool)

	for core, cc := range c.caches {
		for slot := 0; slot < cc.NumLines(); slot++ {
			line := cc.Line(slot)
			if line.State == cache.Invalid {
				continue
			}

			valid[line.Addr]++
			switch line.State {
			case cache.Modified:
				modified[line.Addr]++
				if modified[line.Addr] > 1 {
					return fmt.Errorf(
						"address %d is Modified in more than one cache "+
							"(core %d, slot %d)",
						line.Addr, core, slot)
				}
			case cache.Exclusive:
				exclusive[line.Addr] = true
			}
		}
	}

	for addr := range exclusive {
		if valid[addr] > 1 {
			return fmt.Errorf(
				"address %d is Exclusive but %d caches hold a valid copy",
				addr, valid[addr])
		}
	}

	return nil
}
