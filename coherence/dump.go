package coherence

import (
	"fmt"
	"io"

	"github.com/sarchlab/mesisim/cache"
)

// DumpState writes the memory content and every core's cache lines to w,
// for debugging.
func (c *Controller) DumpState(w io.Writer) {
	caches, memory := c.Snapshot()

	fmt.Fprintf(w, "Memory: ")
	for addr, value := range memory {
		fmt.Fprintf(w, "%02d:%02d ", addr, value)
	}
	fmt.Fprintf(w, "\n")

	for core, lines := range caches {
		fmt.Fprintf(w, "\tCore %d\n", core)
		for _, line := range lines {
			if line.State == cache.Invalid {
				fmt.Fprintf(w, "\t\tState: %s\n", line.State)
				continue
			}

			fmt.Fprintf(w, "\t\tAddress: %d, State: %s, Value: %d\n",
				line.Addr, line.State, line.Data)
		}
		fmt.Fprintf(w, "\n")
	}
}
