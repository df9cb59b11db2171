package fhe

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HandleLength is the size of the opaque reference to an encrypted value.
const HandleLength = 32

// Ciphertext type tags, the last byte of a handle produced by an engine.
const (
	TypeEbool    uint8 = 0
	TypeEuint128 uint8 = 6
)

type (
	// Handle references an encrypted unsigned 128-bit integer. The zero
	// handle is the "null ciphertext" and never refers to a value.
	Handle [HandleLength]byte

	// BoolHandle references an encrypted boolean, ie result of a comparison.
	BoolHandle [HandleLength]byte

	// InputType tells the engine how client supplied ciphertext is encoded.
	InputType uint8

	// Scale is the precision tag of arithmetic operations.
	Scale uint8
)

const (
	InputTypeEuint128 InputType = 0
)

// NoScale is the only scale the ledger uses.
const NoScale Scale = 0

func BytesToHandle(b []byte) (Handle, error) {
	var h Handle
	if len(b) != HandleLength {
		return h, fmt.Errorf("handle length must be %d bytes, got %d bytes", HandleLength, len(b))
	}
	copy(h[:], b)
	return h, nil
}

func (h Handle) IsZero() bool {
	return h == Handle{}
}

func (h Handle) String() string {
	return hexutil.Encode(h[:])
}

func (h Handle) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(h[:])), nil
}

func (h *Handle) UnmarshalText(src []byte) error {
	b, err := hexutil.Decode(string(src))
	if err != nil {
		return err
	}
	v, err := BytesToHandle(b)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func (h BoolHandle) IsZero() bool {
	return h == BoolHandle{}
}

func (h BoolHandle) String() string {
	return hexutil.Encode(h[:])
}
