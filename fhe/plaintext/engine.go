/*
Package plaintext implements fhe.Engine over plaintext integers hidden behind
opaque handles.

It is meant for tests and local development: the arithmetic behaves like the
production engine (fresh handle for every result, unsigned 128-bit values)
but Decrypt makes it possible to assert exact values.
*/
package plaintext

import (
	"crypto"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/alphabill-org/alphabill-go-ctoken/fhe"
	abhash "github.com/alphabill-org/alphabill-go-ctoken/hash"
	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

// CiphertextLength is the size of the ciphertexts produced by Encrypt.
const CiphertextLength = 16

const (
	OpAsEuint128  = "asEuint128"
	OpNewEuint128 = "newEuint128"
	OpAdd         = "add"
	OpSub         = "sub"
	OpGe          = "ge"
	OpSelect      = "select"
)

var mask128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

var _ fhe.Engine = (*Engine)(nil)

// Call is an entry of the engine call log.
type Call struct {
	Op     string
	Caller types.Principal
}

type Engine struct {
	mu            sync.Mutex
	seed          []byte
	counter       uint64
	values        map[fhe.Handle]*uint256.Int
	bools         map[fhe.BoolHandle]bool
	calls         []Call
	checkOverflow bool
}

type Option func(*Engine)

/*
WithOverflowCheck makes Add and Sub fail with fhe.ErrOverflow when the result
does not fit into 128 bits (or is negative). By default the results wrap
around modulo 2^128.
*/
func WithOverflowCheck() Option {
	return func(e *Engine) {
		e.checkOverflow = true
	}
}

// WithSeed sets the seed handles are derived from, engines with different
// seeds never produce the same handle.
func WithSeed(seed []byte) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		seed:   []byte("plaintext"),
		values: make(map[fhe.Handle]*uint256.Int),
		bools:  make(map[fhe.BoolHandle]bool),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Encrypt returns "ciphertext" of v accepted by NewEuint128.
func Encrypt(v uint64) []byte {
	return EncryptInt(uint256.NewInt(v))
}

// EncryptInt returns "ciphertext" of the low 128 bits of v.
func EncryptInt(v *uint256.Int) []byte {
	b := new(uint256.Int).And(v, mask128).Bytes32()
	return b[32-CiphertextLength:]
}

func (e *Engine) AsEuint128(value *uint256.Int, caller types.Principal) (fhe.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log(OpAsEuint128, caller)
	if value == nil {
		return fhe.Handle{}, fmt.Errorf("%w: nil value", fhe.ErrInvalidCiphertext)
	}
	if value.BitLen() > 128 {
		return fhe.Handle{}, fmt.Errorf("%w: constant does not fit into 128 bits", fhe.ErrOverflow)
	}
	return e.newValue(value.Clone()), nil
}

func (e *Engine) NewEuint128(ciphertext []byte, inputType fhe.InputType, caller types.Principal) (fhe.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log(OpNewEuint128, caller)
	if inputType != fhe.InputTypeEuint128 {
		return fhe.Handle{}, fmt.Errorf("%w: unsupported input type %d", fhe.ErrInvalidCiphertext, inputType)
	}
	if len(ciphertext) != CiphertextLength {
		return fhe.Handle{}, fmt.Errorf("%w: expected %d bytes, got %d", fhe.ErrInvalidCiphertext, CiphertextLength, len(ciphertext))
	}
	return e.newValue(new(uint256.Int).SetBytes(ciphertext)), nil
}

func (e *Engine) Add(a, b fhe.Handle, scale fhe.Scale, caller types.Principal) (fhe.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log(OpAdd, caller)
	x, y, err := e.operands(a, b, scale)
	if err != nil {
		return fhe.Handle{}, err
	}
	z := new(uint256.Int).Add(x, y)
	if z.BitLen() > 128 {
		if e.checkOverflow {
			return fhe.Handle{}, fmt.Errorf("%w: %s + %s", fhe.ErrOverflow, a, b)
		}
		z.And(z, mask128)
	}
	return e.newValue(z), nil
}

func (e *Engine) Sub(a, b fhe.Handle, scale fhe.Scale, caller types.Principal) (fhe.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log(OpSub, caller)
	x, y, err := e.operands(a, b, scale)
	if err != nil {
		return fhe.Handle{}, err
	}
	if x.Lt(y) && e.checkOverflow {
		return fhe.Handle{}, fmt.Errorf("%w: %s - %s", fhe.ErrOverflow, a, b)
	}
	z := new(uint256.Int).Sub(x, y)
	return e.newValue(z.And(z, mask128)), nil
}

func (e *Engine) Ge(a, b fhe.Handle, scale fhe.Scale, caller types.Principal) (fhe.BoolHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log(OpGe, caller)
	x, y, err := e.operands(a, b, scale)
	if err != nil {
		return fhe.BoolHandle{}, err
	}
	h := fhe.BoolHandle(e.nextHandle(fhe.TypeEbool))
	e.bools[h] = !x.Lt(y)
	return h, nil
}

func (e *Engine) Select(cond fhe.BoolHandle, ifTrue, ifFalse fhe.Handle, scale fhe.Scale, caller types.Principal) (fhe.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log(OpSelect, caller)
	c, ok := e.bools[cond]
	if !ok {
		return fhe.Handle{}, fmt.Errorf("%w: %s", fhe.ErrUnknownHandle, cond)
	}
	x, y, err := e.operands(ifTrue, ifFalse, scale)
	if err != nil {
		return fhe.Handle{}, err
	}
	if c {
		return e.newValue(x.Clone()), nil
	}
	return e.newValue(y.Clone()), nil
}

// Decrypt returns the plaintext value behind the handle.
func (e *Engine) Decrypt(h fhe.Handle) (*uint256.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.values[h]
	if !ok {
		return nil, fmt.Errorf("%w: %s", fhe.ErrUnknownHandle, h)
	}
	return v.Clone(), nil
}

// DecryptBool returns the plaintext value behind the boolean handle.
func (e *Engine) DecryptBool(h fhe.BoolHandle) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.bools[h]
	if !ok {
		return false, fmt.Errorf("%w: %s", fhe.ErrUnknownHandle, h)
	}
	return v, nil
}

// Calls returns copy of the call log.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// Ops returns operation names of the call log.
func (e *Engine) Ops() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ops := make([]string, len(e.calls))
	for i, c := range e.calls {
		ops[i] = c.Op
	}
	return ops
}

func (e *Engine) ResetCalls() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

func (e *Engine) log(op string, caller types.Principal) {
	e.calls = append(e.calls, Call{Op: op, Caller: caller})
}

func (e *Engine) operands(a, b fhe.Handle, scale fhe.Scale) (*uint256.Int, *uint256.Int, error) {
	if scale != fhe.NoScale {
		return nil, nil, fmt.Errorf("%w: %d", fhe.ErrUnsupportedScale, scale)
	}
	x, ok := e.values[a]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", fhe.ErrUnknownHandle, a)
	}
	y, ok := e.values[b]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", fhe.ErrUnknownHandle, b)
	}
	return x, y, nil
}

func (e *Engine) newValue(v *uint256.Int) fhe.Handle {
	h := e.nextHandle(fhe.TypeEuint128)
	e.values[h] = v
	return h
}

func (e *Engine) nextHandle(typ uint8) fhe.Handle {
	e.counter++
	var cnt [8]byte
	binary.BigEndian.PutUint64(cnt[:], e.counter)
	var h fhe.Handle
	copy(h[:], abhash.SumRaw(crypto.SHA256, e.seed, cnt[:]))
	h[fhe.HandleLength-1] = typ
	return h
}
