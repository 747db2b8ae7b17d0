package worker

import (
	"runtime"
	"sync"
)

type Job func()

// Pool runs jobs concurrently with a bounded number of workers.
type Pool interface {
	Do(Job)
	Wait()
}

type pool struct {
	jobCompleted    *sync.WaitGroup
	workerAvailable *sync.Cond
	currentWorkers  int
	maxWorkers      int
}

func NewPool(maxWorkers int) Pool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return &pool{
		jobCompleted:    &sync.WaitGroup{},
		workerAvailable: sync.NewCond(&sync.Mutex{}),
		currentWorkers:  0,
		maxWorkers:      maxWorkers,
	}
}

func (p *pool) Do(job Job) {
	p.jobCompleted.Add(1)

	p.workerAvailable.L.Lock()
	for p.currentWorkers >= p.maxWorkers {
		p.workerAvailable.Wait()
	}
	p.currentWorkers++
	p.workerAvailable.L.Unlock()

	go func() {
		job()
		p.jobCompleted.Done()

		p.workerAvailable.L.Lock()
		p.currentWorkers--
		p.workerAvailable.L.Unlock()
		p.workerAvailable.Signal()
	}()
}

func (p *pool) Wait() {
	p.jobCompleted.Wait()
}
