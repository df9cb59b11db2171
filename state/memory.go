package state

import (
	"fmt"
	"sync"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

// MemoryStore keeps copies of the records in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	units map[string]types.UnitData
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{units: make(map[string]types.UnitData)}
}

func (s *MemoryStore) Load(id types.UnitID) (types.UnitData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.units[string(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return data.Copy(), nil
}

func (s *MemoryStore) Begin() Tx {
	return &memoryTx{store: s}
}

func (s *MemoryStore) Close() error { return nil }

type memoryOp struct {
	id     types.UnitID
	data   types.UnitData // nil when the unit is released
	create bool
}

type memoryTx struct {
	store *MemoryStore
	ops   []memoryOp
	done  bool
}

func (tx *memoryTx) Create(id types.UnitID, data types.UnitData) error {
	return tx.add(memoryOp{id: id, data: data.Copy(), create: true})
}

func (tx *memoryTx) Persist(id types.UnitID, data types.UnitData) error {
	return tx.add(memoryOp{id: id, data: data.Copy()})
}

func (tx *memoryTx) Release(id types.UnitID) error {
	return tx.add(memoryOp{id: id})
}

func (tx *memoryTx) add(op memoryOp) error {
	if tx.done {
		return ErrTxDone
	}
	tx.ops = append(tx.ops, op)
	return nil
}

func (tx *memoryTx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	tx.done = true

	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// check everything first so that a failing op leaves the store untouched
	present := make(map[string]bool, len(tx.ops))
	for _, op := range tx.ops {
		key := string(op.id)
		exists, seen := present[key]
		if !seen {
			_, exists = s.units[key]
		}
		switch {
		case op.create && exists:
			return fmt.Errorf("%w: %s", ErrExists, op.id)
		case !op.create && !exists:
			return fmt.Errorf("%w: %s", ErrNotFound, op.id)
		}
		present[key] = op.data != nil
	}

	for _, op := range tx.ops {
		if op.data == nil {
			delete(s.units, string(op.id))
		} else {
			s.units[string(op.id)] = op.data
		}
	}
	return nil
}

func (tx *memoryTx) Abort() {
	tx.done = true
	tx.ops = nil
}
