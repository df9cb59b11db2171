/*
Package state stores the ledger records.

Records are addressed by unit ID. A Store hands out copies, the caller
modifies its copy and writes it back through a Tx, so a failed operation
never leaves half modified records behind.
*/
package state

import (
	"errors"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

var (
	ErrNotFound = errors.New("unit not found")
	ErrExists   = errors.New("unit already exists")
	ErrTxDone   = errors.New("transaction already committed or aborted")
)

// UnitDataConstructor returns empty record for the unit, based on the type part of the ID.
type UnitDataConstructor func(types.UnitID) (types.UnitData, error)

type Store interface {
	// Load returns copy of the record of the unit or ErrNotFound.
	Load(id types.UnitID) (types.UnitData, error)
	Begin() Tx
	Close() error
}

/*
Tx collects changes which become visible all at once on Commit. Reads through
Store.Load do not see uncommitted changes.
*/
type Tx interface {
	// Create adds new unit, fails with ErrExists when the unit is already stored.
	Create(id types.UnitID, data types.UnitData) error
	// Persist overwrites the record of existing unit.
	Persist(id types.UnitID, data types.UnitData) error
	// Release removes the unit.
	Release(id types.UnitID) error
	Commit() error
	Abort()
}
