package tracing

import "github.com/sarchlab/mesisim/datarecording"

type accessRow struct {
	Round int
	Core  int
	Op    string
	Addr  uint64
	Data  uint8
}

// A DBTracer persists the access trace through a DataRecorder.
type DBTracer struct {
	recorder datarecording.DataRecorder
	round    int
}

// NewDBTracer creates a DBTracer writing to the given recorder.
func NewDBTracer(recorder datarecording.DataRecorder) *DBTracer {
	t := &DBTracer{recorder: recorder}
	t.recorder.CreateTable("trace", accessRow{})

	return t
}

// TraceTick records the round that subsequent accesses belong to.
func (t *DBTracer) TraceTick(round int) {
	t.round = round
}

// TraceAccess records one access.
func (t *DBTracer) TraceAccess(access Access) {
	t.recorder.InsertData("trace", accessRow{
		Round: t.round,
		Core:  access.Core,
		Op:    access.Op,
		Addr:  access.Addr,
		Data:  access.Data,
	})
}
