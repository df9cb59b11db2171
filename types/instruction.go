package types

import (
	"crypto"
	"errors"
	"fmt"

	"github.com/alphabill-org/alphabill-go-ctoken/cbor"
)

var ErrInstructionIsNil = errors.New("instruction is nil")

type (
	/*
	Instruction is the decoded form of a ledger instruction as handed over by
	the outer dispatcher. The signature of the Signer has already been
	verified, the ledger uses it only for authority comparisons.
	*/
	Instruction struct {
		_          struct{}     `cbor:",toarray"`
		Type       uint16       // instruction type, see the partition specific constants
		Units      []UnitID     // the units the instruction reads or writes, order is type specific
		Signer     Principal    // verified identity of the caller
		Attributes cbor.RawCBOR // instruction type specific attributes
	}
)

/*
SetAttributes serializes "attr" and assigns the result to the Attributes field.
The "attr" is expected to be one of the instruction attribute structs but there
is no validation!
The Instruction.UnmarshalAttributes can be used to decode the attributes.
*/
func (ins *Instruction) SetAttributes(attr any) error {
	if ins == nil {
		return ErrInstructionIsNil
	}
	attrCBOR, err := cbor.Marshal(attr)
	if err != nil {
		return fmt.Errorf("marshaling %T as instruction attributes: %w", attr, err)
	}
	ins.Attributes = attrCBOR
	return nil
}

func (ins *Instruction) UnmarshalAttributes(v any) error {
	if ins == nil {
		return ErrInstructionIsNil
	}
	return cbor.Unmarshal(ins.Attributes, v)
}

func (ins *Instruction) Hash(algorithm crypto.Hash) ([]byte, error) {
	if ins == nil {
		return nil, ErrInstructionIsNil
	}
	return HashCBOR(ins, algorithm)
}
