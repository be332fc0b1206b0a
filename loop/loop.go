// Package loop provides a single-threaded cooperative scheduler with two
// queues: tasks and microtasks. Microtasks drain completely at each
// checkpoint; tasks run one per loop turn.
package loop

import "sync"

// Loop manages deferred work for a document tree. All callbacks run on the
// goroutine that drives the loop; the mutex only protects the queues so that
// enqueueing from a running callback is safe.
type Loop struct {
	microtasks []func()
	tasks      []func()
	mu         sync.Mutex
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{}
}

// QueueMicrotask schedules fn to run at the next microtask checkpoint.
// Microtasks run in FIFO order, strictly after the current synchronous span.
func (l *Loop) QueueMicrotask(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.microtasks = append(l.microtasks, fn)
}

// QueueTask schedules fn as a task. Tasks run after all pending microtasks.
func (l *Loop) QueueTask(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = append(l.tasks, fn)
}

// Checkpoint drains the microtask queue, including microtasks queued by
// microtasks already running in this checkpoint.
func (l *Loop) Checkpoint() {
	for {
		l.mu.Lock()
		if len(l.microtasks) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.microtasks[0]
		l.microtasks = l.microtasks[1:]
		l.mu.Unlock()

		fn()
	}
}

// RunOnce performs one loop turn: a microtask checkpoint followed by at most
// one task. It returns true if work remains queued.
func (l *Loop) RunOnce() bool {
	l.Checkpoint()

	l.mu.Lock()
	if len(l.tasks) == 0 {
		l.mu.Unlock()
		return l.HasPending()
	}
	fn := l.tasks[0]
	l.tasks = l.tasks[1:]
	l.mu.Unlock()

	fn()
	return true
}

// Run turns the loop until both queues are empty.
func (l *Loop) Run() {
	for l.RunOnce() {
	}
	l.Checkpoint()
}

// HasPending reports whether any task or microtask is queued.
func (l *Loop) HasPending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.microtasks) > 0 || len(l.tasks) > 0
}

// Clear drops all queued work.
func (l *Loop) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.microtasks = l.microtasks[:0]
	l.tasks = l.tasks[:0]
}
