package app

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const persistQueueSize = 64

type persistJob struct {
	name string
	run  func(ctx context.Context)
	done chan struct{}
}

// persister runs persistence jobs one at a time in submission order.
type persister struct {
	ctx    context.Context
	log    *zap.Logger
	jobs   chan persistJob
	mu     sync.Mutex
	closed bool
	exited chan struct{}
}

func newPersister(ctx context.Context, log *zap.Logger) *persister {
	p := &persister{
		ctx:    ctx,
		log:    log,
		jobs:   make(chan persistJob, persistQueueSize),
		exited: make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *persister) loop() {
	defer close(p.exited)
	for job := range p.jobs {
		if job.run != nil {
			p.log.Debug("persisting", zap.String("job", job.name))
			job.run(p.ctx)
		}
		if job.done != nil {
			close(job.done)
		}
	}
}

// enqueue schedules run after every job enqueued before it. Jobs enqueued
// after close are dropped.
func (p *persister) enqueue(name string, run func(ctx context.Context)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.log.Warn("persistence stopped, change kept in memory only", zap.String("job", name))
		return
	}
	p.jobs <- persistJob{name: name, run: run}
}

func (p *persister) flush() {
	done := make(chan struct{})

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.exited
		return
	}
	p.jobs <- persistJob{name: "flush", done: done}
	p.mu.Unlock()

	<-done
}

func (p *persister) close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	<-p.exited
}
