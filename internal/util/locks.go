package util

import (
	"sync"
)

// GuardedLock is a mutex which hands out guards, so the lock can be released early and still be safely released by
// defer.
type GuardedLock struct {
	lock sync.Mutex
}

func (l *GuardedLock) Lock() LockGuard {
	guard := LockGuard{lock: &l.lock}
	guard.Lock()
	return guard //nolint:govet
}

func (l *GuardedLock) Do(f func()) {
	lock := l.Lock()
	defer lock.UnlockIfLocked()
	f()
}

type LockGuard struct {
	lock   sync.Locker
	locked bool
}

func (l *LockGuard) Lock() {
	l.lock.Lock()
	l.locked = true
}

func (l *LockGuard) Unlock() {
	l.lock.Unlock()
	l.locked = false
}

func (l *LockGuard) UnlockIfLocked() {
	if l.locked {
		l.Unlock()
	}
}
