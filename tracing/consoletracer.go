package tracing

import (
	"fmt"
	"io"
	"os"
)

// A ConsoleTracer renders the trace as human-readable text, one line per
// access and a banner per clock tick.
type ConsoleTracer struct {
	w io.Writer
}

// NewConsoleTracer creates a ConsoleTracer that writes to w. A nil w
// defaults to stdout.
func NewConsoleTracer(w io.Writer) *ConsoleTracer {
	if w == nil {
		w = os.Stdout
	}

	return &ConsoleTracer{w: w}
}

// TraceTick prints the round banner.
func (t *ConsoleTracer) TraceTick(_ int) {
	fmt.Fprintf(t.w, "\nClock tick\n")
}

// TraceAccess prints one access line.
func (t *ConsoleTracer) TraceAccess(access Access) {
	switch access.Op {
	case "RD":
		fmt.Fprintf(t.w, "Core %d Reading from address %02d: %02d\n",
			access.Core, access.Addr, access.Data)
	case "WR":
		fmt.Fprintf(t.w, "Core %d Writing   to address %02d: %02d\n",
			access.Core, access.Addr, access.Data)
	default:
		fmt.Fprintf(t.w, "Core %d %s address %02d: %02d\n",
			access.Core, access.Op, access.Addr, access.Data)
	}
}
