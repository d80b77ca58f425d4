package pipeline

import "sync/atomic"

// Progress is a snapshot of a run.
type Progress struct {
	Mode         Mode
	BlocksDone   int64
	BlocksTotal  int64
	BytesRead    int64
	ReadTotal    int64
	BytesWritten int64
	WriteTotal   int64
}

// Fraction weighs transformed blocks at one half and bytes read and
// written at one quarter each. It is 1 only when everything is written.
func (p Progress) Fraction() float64 {
	f := 0.25*ratio(p.BytesRead, p.ReadTotal) +
		0.5*ratio(p.BlocksDone, p.BlocksTotal) +
		0.25*ratio(p.BytesWritten, p.WriteTotal)
	if f > 1 {
		f = 1
	}
	return f
}

func ratio(done, total int64) float64 {
	if total <= 0 {
		return 1
	}
	return float64(done) / float64(total)
}

// Reporter receives progress snapshots from the main loop.
type Reporter interface {
	Report(Progress)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Progress)

func (f ReporterFunc) Report(p Progress) { f(p) }

type counters struct {
	blocks  int64
	read    int64
	written int64
}

func (c *counters) addBlock()           { atomic.AddInt64(&c.blocks, 1) }
func (c *counters) addRead(n int64)     { atomic.AddInt64(&c.read, n) }
func (c *counters) addWrite(n int64)    { atomic.AddInt64(&c.written, n) }
func (c *counters) blocksDone() int64   { return atomic.LoadInt64(&c.blocks) }
func (c *counters) bytesRead() int64    { return atomic.LoadInt64(&c.read) }
func (c *counters) bytesWritten() int64 { return atomic.LoadInt64(&c.written) }
