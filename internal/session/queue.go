package session

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned for operations submitted after Close.
var ErrClosed = errors.New("session is closed")

// job is one unit of work run by the queue worker.
type job struct {
	fn   func()
	done chan struct{}
}

// queue runs submitted jobs one at a time on a single worker goroutine, in
// the order they were submitted. A job that has been handed to the worker
// always runs to completion.
type queue struct {
	jobs chan job
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func newQueue() *queue {
	q := &queue{
		jobs: make(chan job),
		quit: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *queue) run() {
	defer q.wg.Done()
	for {
		select {
		case j := <-q.jobs:
			j.fn()
			close(j.done)
		case <-q.quit:
			return
		}
	}
}

// do submits fn and waits for it to finish. ctx only bounds the wait for a
// turn on the worker.
func (q *queue) do(ctx context.Context, fn func() error) error {
	var err error
	j := job{
		fn:   func() { err = fn() },
		done: make(chan struct{}),
	}

	select {
	case q.jobs <- j:
	case <-q.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-j.done
	return err
}

// close stops the worker after the running job, if any, finishes.
func (q *queue) close() {
	q.once.Do(func() {
		close(q.quit)
	})
	q.wg.Wait()
}
