package swagcall

import "sync"

// scheduler is the per-client task queue callbacks are posted to. Posting
// never runs the task on the calling stack, which is what keeps the
// "callback fires only after the initiating call returns" contract intact
// for local validation failures and transport completions alike. Tasks run
// one at a time in post order.
type scheduler struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	started bool
	closed  bool
}

func newScheduler() *scheduler {
	s := &scheduler{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// post enqueues fn. The worker goroutine starts lazily on first use. After
// close, tasks still run, each on its own goroutine, so late completions
// keep their asynchrony guarantee.
func (s *scheduler) post(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		go fn()
		return
	}
	s.queue = append(s.queue, fn)
	if !s.started {
		s.started = true
		go s.run()
	}
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *scheduler) run() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		fn()
	}
}

// close drains the queue and stops the worker once it is empty.
func (s *scheduler) close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
}
