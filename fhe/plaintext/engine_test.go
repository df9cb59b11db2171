package plaintext

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/alphabill-go-ctoken/fhe"
	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

var caller = types.Principal{0xCA}

func maxUint128() *uint256.Int {
	return new(uint256.Int).Set(mask128)
}

func newValue(t *testing.T, e *Engine, v uint64) fhe.Handle {
	t.Helper()
	h, err := e.NewEuint128(Encrypt(v), fhe.InputTypeEuint128, caller)
	require.NoError(t, err)
	return h
}

func requireValue(t *testing.T, e *Engine, h fhe.Handle, v uint64) {
	t.Helper()
	pv, err := e.Decrypt(h)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(v), pv)
}

func Test_Constants(t *testing.T) {
	e := New()

	t.Run("every call returns new handle", func(t *testing.T) {
		h1, err := e.AsEuint128(uint256.NewInt(0), caller)
		require.NoError(t, err)
		h2, err := e.AsEuint128(uint256.NewInt(0), caller)
		require.NoError(t, err)
		require.NotEqual(t, h1, h2)
		require.False(t, h1.IsZero())
		require.Equal(t, fhe.TypeEuint128, h1[fhe.HandleLength-1])
		requireValue(t, e, h1, 0)
		requireValue(t, e, h2, 0)
	})

	t.Run("too big constant", func(t *testing.T) {
		v := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
		_, err := e.AsEuint128(v, caller)
		require.ErrorIs(t, err, fhe.ErrOverflow)
	})

	t.Run("nil constant", func(t *testing.T) {
		_, err := e.AsEuint128(nil, caller)
		require.ErrorIs(t, err, fhe.ErrInvalidCiphertext)
	})
}

func Test_NewEuint128(t *testing.T) {
	e := New()

	t.Run("valid", func(t *testing.T) {
		requireValue(t, e, newValue(t, e, 100), 100)

		h, err := e.NewEuint128(EncryptInt(maxUint128()), fhe.InputTypeEuint128, caller)
		require.NoError(t, err)
		v, err := e.Decrypt(h)
		require.NoError(t, err)
		require.Equal(t, maxUint128(), v)
	})

	t.Run("invalid input type", func(t *testing.T) {
		_, err := e.NewEuint128(Encrypt(1), 9, caller)
		require.ErrorIs(t, err, fhe.ErrInvalidCiphertext)
		require.ErrorContains(t, err, `unsupported input type 9`)
	})

	t.Run("invalid length", func(t *testing.T) {
		_, err := e.NewEuint128([]byte{1, 2, 3}, fhe.InputTypeEuint128, caller)
		require.ErrorIs(t, err, fhe.ErrInvalidCiphertext)
		require.ErrorContains(t, err, `expected 16 bytes, got 3`)
	})
}

func Test_Arithmetic(t *testing.T) {
	e := New()
	a := newValue(t, e, 70)
	b := newValue(t, e, 30)

	t.Run("add", func(t *testing.T) {
		h, err := e.Add(a, b, fhe.NoScale, caller)
		require.NoError(t, err)
		requireValue(t, e, h, 100)
	})

	t.Run("sub", func(t *testing.T) {
		h, err := e.Sub(a, b, fhe.NoScale, caller)
		require.NoError(t, err)
		requireValue(t, e, h, 40)
	})

	t.Run("ge and select", func(t *testing.T) {
		zero, err := e.AsEuint128(uint256.NewInt(0), caller)
		require.NoError(t, err)

		ge, err := e.Ge(a, b, fhe.NoScale, caller)
		require.NoError(t, err)
		ok, err := e.DecryptBool(ge)
		require.NoError(t, err)
		require.True(t, ok)
		h, err := e.Select(ge, b, zero, fhe.NoScale, caller)
		require.NoError(t, err)
		requireValue(t, e, h, 30)

		ge, err = e.Ge(b, a, fhe.NoScale, caller)
		require.NoError(t, err)
		h, err = e.Select(ge, a, zero, fhe.NoScale, caller)
		require.NoError(t, err)
		requireValue(t, e, h, 0)

		// equal values are "greater or equal"
		ge, err = e.Ge(a, a, fhe.NoScale, caller)
		require.NoError(t, err)
		ok, err = e.DecryptBool(ge)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("unknown handle", func(t *testing.T) {
		_, err := e.Add(a, fhe.Handle{1}, fhe.NoScale, caller)
		require.ErrorIs(t, err, fhe.ErrUnknownHandle)
		_, err = e.Select(fhe.BoolHandle{1}, a, b, fhe.NoScale, caller)
		require.ErrorIs(t, err, fhe.ErrUnknownHandle)
		_, err = e.Decrypt(fhe.Handle{})
		require.ErrorIs(t, err, fhe.ErrUnknownHandle)
		_, err = e.DecryptBool(fhe.BoolHandle{})
		require.ErrorIs(t, err, fhe.ErrUnknownHandle)
	})

	t.Run("scale", func(t *testing.T) {
		_, err := e.Sub(a, b, 2, caller)
		require.ErrorIs(t, err, fhe.ErrUnsupportedScale)
	})
}

func Test_Overflow(t *testing.T) {
	t.Run("wraps by default", func(t *testing.T) {
		e := New()
		max, err := e.AsEuint128(maxUint128(), caller)
		require.NoError(t, err)
		one := newValue(t, e, 1)
		zero := newValue(t, e, 0)

		h, err := e.Add(max, one, fhe.NoScale, caller)
		require.NoError(t, err)
		requireValue(t, e, h, 0)

		h, err = e.Sub(zero, one, fhe.NoScale, caller)
		require.NoError(t, err)
		v, err := e.Decrypt(h)
		require.NoError(t, err)
		require.Equal(t, maxUint128(), v)
	})

	t.Run("checked", func(t *testing.T) {
		e := New(WithOverflowCheck())
		max, err := e.AsEuint128(maxUint128(), caller)
		require.NoError(t, err)
		one := newValue(t, e, 1)
		zero := newValue(t, e, 0)

		_, err = e.Add(max, one, fhe.NoScale, caller)
		require.ErrorIs(t, err, fhe.ErrOverflow)
		_, err = e.Sub(zero, one, fhe.NoScale, caller)
		require.ErrorIs(t, err, fhe.ErrOverflow)

		h, err := e.Sub(max, max, fhe.NoScale, caller)
		require.NoError(t, err)
		requireValue(t, e, h, 0)
	})
}

func Test_CallLog(t *testing.T) {
	e := New()
	other := types.Principal{0x0B}
	a := newValue(t, e, 1)
	_, err := e.Add(a, a, fhe.NoScale, other)
	require.NoError(t, err)

	require.Equal(t, []string{OpNewEuint128, OpAdd}, e.Ops())
	calls := e.Calls()
	require.Equal(t, caller, calls[0].Caller)
	require.Equal(t, other, calls[1].Caller)

	e.ResetCalls()
	require.Empty(t, e.Calls())
	// values survive the reset
	requireValue(t, e, a, 1)
}

func Test_Seed(t *testing.T) {
	h1, err := New().AsEuint128(uint256.NewInt(1), caller)
	require.NoError(t, err)
	h2, err := New().AsEuint128(uint256.NewInt(1), caller)
	require.NoError(t, err)
	require.Equal(t, h1, h2, "handles are deterministic")

	h3, err := New(WithSeed([]byte("other"))).AsEuint128(uint256.NewInt(1), caller)
	require.NoError(t, err)
	require.NotEqual(t, h1, h3)
}

func Test_Concurrency(t *testing.T) {
	e := New()
	one := newValue(t, e, 1)

	var wg sync.WaitGroup
	handles := make([]fhe.Handle, 50)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := e.Add(one, one, fhe.NoScale, caller)
			require.NoError(t, err)
			handles[i] = h
		}(i)
	}
	wg.Wait()

	seen := map[fhe.Handle]struct{}{}
	for _, h := range handles {
		requireValue(t, e, h, 2)
		seen[h] = struct{}{}
	}
	require.Len(t, seen, len(handles))
}
