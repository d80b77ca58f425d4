package pipeline

import "sync"

// pool is a fixed set of goroutines draining a job channel.
type pool struct {
	jobs chan func()
	wg   sync.WaitGroup
}

func newPool(workers int) *pool {
	p := &pool{jobs: make(chan func(), workers*4)}
	for w := 0; w < workers; w++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

func (p *pool) submit(job func()) {
	p.jobs <- job
}

// do runs job on a pool goroutine and waits for its result.
func (p *pool) do(job func() error) error {
	errc := make(chan error, 1)
	p.submit(func() { errc <- job() })
	return <-errc
}

// close stops accepting jobs and waits for queued ones to finish.
func (p *pool) close() {
	close(p.jobs)
	p.wg.Wait()
}
