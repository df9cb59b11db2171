package ctoken

import (
	"fmt"

	"github.com/alphabill-org/alphabill-go-ctoken/fhe"
)

/*
Amount is the encrypted amount argument of an operation: either client
ciphertext which is imported by the engine or handle of an encrypted value
the engine already knows.
*/
type Amount struct {
	_          struct{}      `cbor:",toarray"`
	Ciphertext []byte        // client ciphertext, used when Handle is nil
	InputType  fhe.InputType // encoding of the Ciphertext
	Handle     *fhe.Handle   // pre-encrypted amount
}

func CiphertextAmount(ciphertext []byte, inputType fhe.InputType) Amount {
	return Amount{Ciphertext: ciphertext, InputType: inputType}
}

func HandleAmount(h fhe.Handle) Amount {
	return Amount{Handle: &h}
}

func (a Amount) IsHandle() bool {
	return a.Handle != nil
}

func (a Amount) Validate() error {
	if a.IsHandle() {
		if len(a.Ciphertext) != 0 {
			return fmt.Errorf("%w: both ciphertext and handle set", ErrInvalidAmount)
		}
		if a.Handle.IsZero() {
			return fmt.Errorf("%w: zero handle", ErrInvalidAmount)
		}
		return nil
	}
	if len(a.Ciphertext) == 0 {
		return fmt.Errorf("%w: ciphertext is empty", ErrInvalidAmount)
	}
	return nil
}
