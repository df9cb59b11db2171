package ctoken

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/alphabill-go-ctoken/fhe"
)

func TestRequireAuthority(t *testing.T) {
	owner := principal(1)

	require.NoError(t, requireAuthority(owner, NewAuthority(owner), reasonFixedSupply))

	err := requireAuthority(principal(2), NewAuthority(owner), reasonFixedSupply)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.NotErrorIs(t, err, ErrCapabilityDisabled)

	// disabled wins over unauthorized, whoever asks
	for _, p := range []byte{0, 1, 2} {
		err = requireAuthority(principal(p), Authority{}, reasonMintCannotFreeze)
		require.ErrorIs(t, err, ErrCapabilityDisabled)
		require.ErrorContains(t, err, "mint cannot freeze accounts")
	}
}

func TestRequireAccountState(t *testing.T) {
	tests := []struct {
		state       AccountState
		initialized error
		spendable   error
		notFrozen   error
	}{
		{state: AccountUninitialized, initialized: ErrNotInitialized, spendable: ErrNotInitialized},
		{state: AccountInitialized},
		{state: AccountFrozen, spendable: ErrFrozen, notFrozen: ErrFrozen},
	}
	for _, tc := range tests {
		t.Run(tc.state.String(), func(t *testing.T) {
			acc := &AccountData{State: tc.state}
			check := func(err, expected error) {
				if expected == nil {
					require.NoError(t, err)
				} else {
					require.ErrorIs(t, err, expected)
				}
			}
			check(requireAccountInitialized(acc), tc.initialized)
			check(requireSpendable(acc), tc.spendable)
			check(requireNotFrozen(acc), tc.notFrozen)
		})
	}

	err := requireState(&AccountData{State: AccountFrozen}, AccountInitialized)
	require.ErrorIs(t, err, ErrWrongState)
	require.EqualError(t, err, "invalid account state: expected initialized, got frozen")

	require.ErrorIs(t, requireAccountUninitialized(&AccountData{State: AccountFrozen}), ErrAlreadyInitialized)
	require.NoError(t, requireAccountUninitialized(&AccountData{}))
}

func TestRequireMint(t *testing.T) {
	require.ErrorIs(t, requireMintInitialized(&MintData{}), ErrNotInitialized)
	require.ErrorIs(t, requireMintUninitialized(&MintData{IsInitialized: true}), ErrAlreadyInitialized)

	mint := &MintData{IsInitialized: true, Decimals: 6}
	require.NoError(t, requireMintInitialized(mint))
	require.NoError(t, requireSameDecimals(mint, 6))
	require.ErrorIs(t, requireSameDecimals(mint, 9), ErrDecimalsMismatch)

	mintID := NewMintID([]byte{1})
	acc := &AccountData{Mint: mintID}
	require.NoError(t, requireLinked(acc, NewMintID([]byte{1})))
	require.ErrorIs(t, requireLinked(acc, NewMintID([]byte{2})), ErrMintMismatch)
}

func TestRequireOwner(t *testing.T) {
	owner, delegate, closer, other := principal(1), principal(2), principal(3), principal(4)
	acc := &AccountData{
		Owner:          owner,
		Delegate:       NewAuthority(delegate),
		CloseAuthority: NewAuthority(closer),
	}

	require.NoError(t, requireOwner(acc, owner))
	require.ErrorIs(t, requireOwner(acc, delegate), ErrUnauthorized)

	require.NoError(t, requireOwnerOrDelegate(acc, owner))
	require.NoError(t, requireOwnerOrDelegate(acc, delegate))
	require.ErrorIs(t, requireOwnerOrDelegate(acc, closer), ErrUnauthorized)

	require.NoError(t, requireOwnerOrCloseAuthority(acc, owner))
	require.NoError(t, requireOwnerOrCloseAuthority(acc, closer))
	require.ErrorIs(t, requireOwnerOrCloseAuthority(acc, delegate), ErrUnauthorized)
	require.ErrorIs(t, requireOwnerOrCloseAuthority(acc, other), ErrUnauthorized)

	// disabled delegate doesn't match the zero principal
	acc.Delegate = Authority{}
	require.ErrorIs(t, requireOwnerOrDelegate(acc, principal(0)), ErrUnauthorized)
}

func TestAmount_Validate(t *testing.T) {
	require.NoError(t, CiphertextAmount([]byte{1}, fhe.InputTypeEuint128).Validate())
	require.NoError(t, HandleAmount(handle(1)).Validate())
	require.True(t, HandleAmount(handle(1)).IsHandle())

	require.ErrorIs(t, Amount{}.Validate(), ErrInvalidAmount)
	require.ErrorIs(t, HandleAmount(fhe.Handle{}).Validate(), ErrInvalidAmount)
	h := handle(1)
	require.ErrorIs(t, Amount{Ciphertext: []byte{1}, Handle: &h}.Validate(), ErrInvalidAmount)
}
