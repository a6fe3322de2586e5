package tracing

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

// CSVTracerBackend is a tracer that stores the access records into a CSV
// file.
type CSVTracerBackend struct {
	path string
	file *os.File

	round      int
	accesses   []Access
	rounds     []int
	bufferSize int
}

// NewCSVTracerBackend creates a new CSVTracerBackend.
func NewCSVTracerBackend(path string) *CSVTracerBackend {
	return &CSVTracerBackend{
		path:       path,
		bufferSize: 1000,
	}
}

// Init creates the tracing csv file. If the file already exists, it will be
// overwritten.
func (t *CSVTracerBackend) Init() {
	file, err := os.Create(t.path)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "Round, Core, Op, Addr, Data\n")

	atexit.Register(func() {
		t.Flush()
		err := t.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// TraceTick records the round that subsequent accesses belong to.
func (t *CSVTracerBackend) TraceTick(round int) {
	t.round = round
}

// TraceAccess buffers an access record.
func (t *CSVTracerBackend) TraceAccess(access Access) {
	t.accesses = append(t.accesses, access)
	t.rounds = append(t.rounds, t.round)

	if len(t.accesses) >= t.bufferSize {
		t.Flush()
	}
}

// Flush flushes the buffered records to the CSV file.
func (t *CSVTracerBackend) Flush() {
	for i, access := range t.accesses {
		fmt.Fprintf(t.file, "%d, %d, %s, %d, %d\n",
			t.rounds[i],
			access.Core,
			access.Op,
			access.Addr,
			access.Data,
		)
	}

	t.accesses = nil
	t.rounds = nil
}
