// Package source provides key event sources for the label manager.
//
// Every source runs a single goroutine that delivers events to a label.Sink
// one at a time. Stop signals the goroutine and Wait joins it; once Wait
// returns no further callbacks are made.
package source

import (
	"fmt"
	"sync"
)

type worker struct {
	mu      sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newWorker() worker {
	return worker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (w *worker) start(loop func(stop <-chan struct{})) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return fmt.Errorf("source already started")
	}
	w.started = true
	go func() {
		defer close(w.done)
		loop(w.stop)
	}()
	return nil
}

// Stop signals the source goroutine to exit.
func (w *worker) Stop() {
	w.once.Do(func() { close(w.stop) })
}

// Wait blocks until the source goroutine has exited. It returns at once when
// the source was never started.
func (w *worker) Wait() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if !started {
		return nil
	}
	<-w.done
	return nil
}
