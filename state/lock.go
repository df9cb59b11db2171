package state

import (
	"slices"
	"sync"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

/*
Locks hands out exclusive per-unit locks. Lock acquires the locks of all the
units in ascending ID order so two callers locking overlapping sets can't
deadlock.
*/
type Locks struct {
	mu    sync.Mutex
	locks map[string]*unitLock
}

type unitLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*unitLock)}
}

// Lock blocks until all the units are locked, the returned func releases them.
func (l *Locks) Lock(ids ...types.UnitID) (unlock func()) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, string(id))
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	held := make([]*unitLock, 0, len(keys))
	for _, key := range keys {
		ul := l.acquire(key)
		ul.mu.Lock()
		held = append(held, ul)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.release(keys[i])
		}
	}
}

func (l *Locks) acquire(key string) *unitLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	ul, ok := l.locks[key]
	if !ok {
		ul = &unitLock{}
		l.locks[key] = ul
	}
	ul.refs++
	return ul
}

func (l *Locks) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ul := l.locks[key]
	if ul.refs--; ul.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *Locks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
