package ctoken

import (
	"crypto"
	"crypto/rand"
	"fmt"

	abhash "github.com/alphabill-org/alphabill-go-ctoken/hash"
	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

const (
	UnitIDLength   = UnitPartLength + TypePartLength
	UnitPartLength = 32
	TypePartLength = 1
)

var (
	MintUnitType    = []byte{0x30}
	AccountUnitType = []byte{0x31}
	ReserveUnitType = []byte{0x32}
)

type (
	MintUnit    = types.Unit[*MintData]
	AccountUnit = types.Unit[*AccountData]
	ReserveUnit = types.Unit[*ReserveData]
)

func NewMintID(unitPart []byte) types.UnitID {
	return types.NewUnitID(UnitIDLength, unitPart, MintUnitType)
}

func NewAccountID(unitPart []byte) types.UnitID {
	return types.NewUnitID(UnitIDLength, unitPart, AccountUnitType)
}

// NewReserveID returns ID of the unit holding reclaimed reserves of the principal.
func NewReserveID(holder types.Principal) types.UnitID {
	return types.NewUnitID(UnitIDLength, holder[:], ReserveUnitType)
}

/*
NewAssociatedAccountID derives the canonical account ID of the owner for the
mint, so wallets can find the account without an index.
*/
func NewAssociatedAccountID(owner types.Principal, mintID types.UnitID) types.UnitID {
	unitPart := abhash.Sum(crypto.SHA256, owner, mintID)
	return NewAccountID(unitPart)
}

func NewRandomMintID() (types.UnitID, error) {
	return newRandomUnitID(MintUnitType)
}

func NewRandomAccountID() (types.UnitID, error) {
	return newRandomUnitID(AccountUnitType)
}

func newRandomUnitID(typePart []byte) (types.UnitID, error) {
	unitPart := make([]byte, UnitPartLength)
	if _, err := rand.Read(unitPart); err != nil {
		return nil, err
	}
	return types.NewUnitID(UnitIDLength, unitPart, typePart), nil
}

// NewUnitData returns empty record of the kind identified by the type part of the unit ID.
func NewUnitData(unitID types.UnitID) (types.UnitData, error) {
	if unitID.HasType(MintUnitType) {
		return &MintData{}, nil
	}
	if unitID.HasType(AccountUnitType) {
		return &AccountData{}, nil
	}
	if unitID.HasType(ReserveUnitType) {
		return &ReserveData{}, nil
	}
	return nil, fmt.Errorf("unknown unit type in UnitID %s", unitID)
}
