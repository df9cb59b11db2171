/*
Package fhe describes the homomorphic arithmetic capability the confidential
ledger is built on.

The ledger never sees plaintext: it combines opaque handles by calling an
Engine and stores the resulting handles. Every call carries the identity of
the caller, engines use it to tag access to the produced handles.
*/
package fhe

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

var (
	ErrOverflow          = errors.New("arithmetic overflow")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrUnknownHandle     = errors.New("unknown handle")
	ErrUnsupportedScale  = errors.New("unsupported scale")
)

/*
Engine is the homomorphic arithmetic capability. All the operations are pure
functions of their (encrypted) inputs, they produce a new handle and have no
other side effects, so every call can be retried.

Engine signals numeric overflow with an error wrapping ErrOverflow; whether
overflow is detected at all (or values wrap around) is up to the engine.
*/
type Engine interface {
	// AsEuint128 encrypts a public constant.
	AsEuint128(value *uint256.Int, caller types.Principal) (Handle, error)
	// NewEuint128 imports client supplied ciphertext.
	NewEuint128(ciphertext []byte, inputType InputType, caller types.Principal) (Handle, error)
	Add(a, b Handle, scale Scale, caller types.Principal) (Handle, error)
	Sub(a, b Handle, scale Scale, caller types.Principal) (Handle, error)
	// Ge compares a >= b, the result is encrypted too.
	Ge(a, b Handle, scale Scale, caller types.Principal) (BoolHandle, error)
	// Select returns (encrypted) ifTrue when cond holds, ifFalse otherwise.
	Select(cond BoolHandle, ifTrue, ifFalse Handle, scale Scale, caller types.Principal) (Handle, error)
}
