package types

import (
	"crypto"

	abhash "github.com/alphabill-org/alphabill-go-ctoken/hash"
)

type (
	// UnitData is a generic data type for the unit state.
	UnitData interface {
		Write(hasher abhash.Hasher)
		Copy() UnitData
	}

	// Unit binds unit state to the identifier it is stored under. Records
	// are owned by the storage, handlers only read and write their fields.
	Unit[T UnitData] struct {
		ID   UnitID
		Data T
	}
)

// UnitDataHash returns the hash of the unit data, as written by its Write method.
func UnitDataHash(data UnitData, algorithm crypto.Hash) ([]byte, error) {
	hasher := abhash.New(algorithm.New())
	data.Write(hasher)
	return hasher.Sum()
}
