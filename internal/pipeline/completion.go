package pipeline

import (
	"fmt"
	"sync"
)

// completion counts finished blocks for one chunk. done is closed when
// completed reaches expected.
type completion struct {
	completed uint32
	expected  uint32
	done      chan struct{}
}

// completionTable maps chunk sequence numbers to their completion records.
// Every access happens under mu.
type completionTable struct {
	mu      sync.Mutex
	records map[uint64]*completion
}

func newCompletionTable() *completionTable {
	return &completionTable{records: make(map[uint64]*completion)}
}

func (t *completionTable) register(seq uint64, expected uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.records[seq]; exists {
		panic(fmt.Sprintf("pipeline: chunk %d registered twice", seq))
	}
	c := &completion{expected: expected, done: make(chan struct{})}
	if expected == 0 {
		close(c.done)
	}
	t.records[seq] = c
}

// complete records one finished block of chunk seq.
func (t *completionTable) complete(seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.records[seq]
	if !ok {
		panic(fmt.Sprintf("pipeline: completion for unknown chunk %d", seq))
	}
	c.completed++
	if c.completed == c.expected {
		close(c.done)
	}
}

// doneChan returns the channel closed once chunk seq is ready to flush.
func (t *completionTable) doneChan(seq uint64) <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.records[seq]
	if !ok {
		panic(fmt.Sprintf("pipeline: no record for chunk %d", seq))
	}
	return c.done
}

// state returns the counters of chunk seq.
func (t *completionTable) state(seq uint64) (completed, expected uint32, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.records[seq]
	if !ok {
		return 0, 0, false
	}
	return c.completed, c.expected, true
}

func (t *completionTable) remove(seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, seq)
}

func (t *completionTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// pendingQueue holds buffer offsets of blocks waiting to be handed to a
// worker. The read job fills it; the main loop drains it.
type pendingQueue struct {
	mu      sync.Mutex
	offsets []int
}

func (q *pendingQueue) push(offsets ...int) {
	q.mu.Lock()
	q.offsets = append(q.offsets, offsets...)
	q.mu.Unlock()
}

func (q *pendingQueue) drain() []int {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.offsets
	q.offsets = nil
	return out
}
