package types

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const PrincipalLength = 32

type (
	// UnitID is the extended identifier, combining the unit and the type identifiers.
	UnitID []byte

	// Principal is the identity of a caller (public key equivalent). The
	// ledger only compares principals, signatures are verified before the
	// ledger is called.
	Principal [PrincipalLength]byte
)

func NewUnitID(unitIDLength int, unitPart []byte, typePart []byte) UnitID {
	id := make([]byte, unitIDLength)
	// the unit part is right-aligned in front of the type part
	n := unitIDLength - len(typePart)
	if len(unitPart) > n {
		unitPart = unitPart[len(unitPart)-n:]
	}
	copy(id[n-len(unitPart):], unitPart)
	copy(id[n:], typePart)
	return id
}

func (uid UnitID) Compare(key UnitID) int {
	return bytes.Compare(uid, key)
}

func (uid UnitID) String() string {
	return fmt.Sprintf("%X", []byte(uid))
}

func (uid UnitID) Eq(id UnitID) bool {
	return bytes.Equal(uid, id)
}

// HasType returns true when the trailing bytes of the ID equal typePart.
func (uid UnitID) HasType(typePart []byte) bool {
	if len(typePart) == 0 || len(uid) < len(typePart) {
		return false
	}
	return bytes.Equal(uid[len(uid)-len(typePart):], typePart)
}

func (uid UnitID) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(uid)), nil
}

func (uid *UnitID) UnmarshalText(src []byte) error {
	res, err := hexutil.Decode(string(src))
	if err == nil {
		*uid = res
	}
	return err
}

func BytesToPrincipal(b []byte) (Principal, error) {
	var p Principal
	if len(b) != PrincipalLength {
		return p, fmt.Errorf("principal length must be %d bytes, got %d bytes", PrincipalLength, len(b))
	}
	copy(p[:], b)
	return p, nil
}

func (p Principal) Bytes() []byte {
	return bytes.Clone(p[:])
}

func (p Principal) IsZero() bool {
	return p == Principal{}
}

func (p Principal) String() string {
	return hexutil.Encode(p[:])
}

func (p Principal) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(p[:])), nil
}

func (p *Principal) UnmarshalText(src []byte) error {
	b, err := hexutil.Decode(string(src))
	if err != nil {
		return err
	}
	v, err := BytesToPrincipal(b)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
