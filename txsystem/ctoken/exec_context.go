package ctoken

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"

	"github.com/alphabill-org/alphabill-go-ctoken/state"
	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

type unitOp uint8

const (
	opPersist unitOp = iota
	opCreate
	opRelease
)

type trackedUnit struct {
	id       types.UnitID
	data     types.UnitData
	op       unitOp
	origHash []byte // hash of the record as loaded, nil for created units
}

/*
execContext holds the copies of the records an instruction works on and
writes the modified ones back to the store in a single transaction.
*/
type execContext struct {
	store         state.Store
	hashAlgorithm crypto.Hash
	units         []*trackedUnit
	index         map[string]*trackedUnit
}

func newExecContext(store state.Store, algorithm crypto.Hash) *execContext {
	return &execContext{
		store:         store,
		hashAlgorithm: algorithm,
		index:         make(map[string]*trackedUnit),
	}
}

/*
load returns the record of the unit. When the unit doesn't exist and create
is not nil the record returned by create is added to the store on commit.
*/
func (ec *execContext) load(id types.UnitID, create func() types.UnitData) (types.UnitData, error) {
	if u, ok := ec.index[string(id)]; ok {
		if u.op == opRelease {
			return nil, fmt.Errorf("%w: %s", state.ErrNotFound, id)
		}
		return u.data, nil
	}

	u := &trackedUnit{id: id}
	data, err := ec.store.Load(id)
	switch {
	case err == nil:
		if u.origHash, err = types.UnitDataHash(data, ec.hashAlgorithm); err != nil {
			return nil, fmt.Errorf("hashing unit %s: %w", id, err)
		}
		u.data, u.op = data, opPersist
	case create != nil && errors.Is(err, state.ErrNotFound):
		u.data, u.op = create(), opCreate
	default:
		return nil, err
	}
	ec.units = append(ec.units, u)
	ec.index[string(id)] = u
	return u.data, nil
}

func (ec *execContext) release(id types.UnitID) {
	if u, ok := ec.index[string(id)]; ok {
		u.op = opRelease
	}
}

func loadUnit[T types.UnitData](ec *execContext, id types.UnitID, typePart []byte, create func() types.UnitData) (*types.Unit[T], error) {
	if !id.HasType(typePart) {
		return nil, fmt.Errorf("unit %s: invalid unit type", id)
	}
	data, err := ec.load(id, create)
	if err != nil {
		return nil, err
	}
	d, ok := data.(T)
	if !ok {
		return nil, fmt.Errorf("unit %s: unexpected record type %T", id, data)
	}
	return &types.Unit[T]{ID: id, Data: d}, nil
}

// commit writes created, modified and released units to the store. Units which were only read are skipped.
func (ec *execContext) commit() ([]UnitChange, error) {
	tx := ec.store.Begin()
	var changes []UnitChange
	for _, u := range ec.units {
		if u.op == opRelease {
			if err := tx.Release(u.id); err != nil {
				tx.Abort()
				return nil, err
			}
			changes = append(changes, UnitChange{UnitID: u.id, Released: true})
			continue
		}

		h, err := types.UnitDataHash(u.data, ec.hashAlgorithm)
		if err != nil {
			tx.Abort()
			return nil, fmt.Errorf("hashing unit %s: %w", u.id, err)
		}
		switch {
		case u.op == opCreate:
			err = tx.Create(u.id, u.data)
		case !bytes.Equal(h, u.origHash):
			err = tx.Persist(u.id, u.data)
		default:
			continue
		}
		if err != nil {
			tx.Abort()
			return nil, err
		}
		changes = append(changes, UnitChange{UnitID: u.id, StateHash: h})
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}
