// Package loop implements a serialized execution context: all tasks posted to a loop are executed one by one in a
// single goroutine in the order they have been posted.
package loop

import (
	"context"
	"errors"

	"go.uber.org/atomic"

	"github.com/KonishchevDmitry/rssreader/internal/util"
)

var ErrStopped = errors.New("the loop is stopped")

type Loop struct {
	wakeup  chan struct{}
	stopped chan struct{}
	running atomic.Bool

	lock   util.GuardedLock
	tasks  []func()
	closed bool
}

func New() *Loop {
	return &Loop{
		wakeup:  make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Post schedules the task for execution. It never blocks. Tasks posted to a stopped loop are dropped.
func (l *Loop) Post(task func()) bool {
	lock := l.lock.Lock()
	defer lock.UnlockIfLocked()

	if l.closed {
		return false
	}
	l.tasks = append(l.tasks, task)
	lock.Unlock()

	select {
	case l.wakeup <- struct{}{}:
	default:
	}

	return true
}

// Call executes the task in the loop and waits for its completion. If the context is done or the loop is stopped
// before the task has started, the task is abandoned and never executed. A started task is always waited for.
func (l *Loop) Call(ctx context.Context, task func()) error {
	var claimed atomic.Bool
	done := make(chan struct{})

	if !l.Post(func() {
		if !claimed.CompareAndSwap(false, true) {
			return
		}
		defer close(done)
		task()
	}) {
		return ErrStopped
	}

	// Either the loop claims the task by starting it or we claim it by abandoning
	abandon := func(err error) error {
		if claimed.CompareAndSwap(false, true) {
			return err
		}
		<-done
		return nil
	}

	select {
	case <-done:
		return nil
	case <-l.stopped:
		return abandon(ErrStopped)
	case <-ctx.Done():
		return abandon(ctx.Err())
	}
}

// Run executes the tasks until the loop is stopped or the context is done.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("the loop is already running")
	}
	defer l.running.Store(false)

	for {
		for {
			task, ok := l.next()
			if !ok {
				break
			}
			task()

			select {
			case <-l.stopped:
				return nil
			default:
			}
		}

		select {
		case <-l.wakeup:
		case <-l.stopped:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop makes Run to return after the currently executing task. Pending tasks are discarded.
func (l *Loop) Stop() {
	lock := l.lock.Lock()
	defer lock.UnlockIfLocked()

	if l.closed {
		return
	}
	l.closed = true
	l.tasks = nil
	close(l.stopped)
}

func (l *Loop) next() (func(), bool) {
	lock := l.lock.Lock()
	defer lock.UnlockIfLocked()

	if len(l.tasks) == 0 || l.closed {
		return nil, false
	}

	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]

	return task, true
}
