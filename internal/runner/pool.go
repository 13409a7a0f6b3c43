package runner

import "sync"

// Pool executes submitted funcs on a fixed number of workers. Close blocks
// until every submitted task has finished; that is the "all shards of this
// stage are done" barrier.
type Pool struct {
	numWorkers int
	tasks      chan func()
	wg         sync.WaitGroup
}

func NewPool(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		numWorkers: numWorkers,
		tasks:      make(chan func()),
	}
}

func (p *Pool) Start() {
	for range p.numWorkers {
		p.wg.Go(func() {
			for task := range p.tasks {
				task()
			}
		})
	}
}

func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

func (p *Pool) Close() {
	close(p.tasks)
	p.wg.Wait()
}
