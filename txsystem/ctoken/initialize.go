package ctoken

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

/*
InitializeMint turns the uninitialized mint record into a mint with zero
supply. The payer is the caller of the engine.
*/
func (l *Ledger) InitializeMint(mint *MintUnit, decimals uint8, mintAuthority types.Principal, freezeAuthority Authority, payer types.Principal) error {
	if err := checkMintUnit(mint); err != nil {
		return err
	}
	if err := requireMintUninitialized(mint.Data); err != nil {
		return err
	}

	supply, err := l.zero(payer)
	if err != nil {
		return err
	}

	mint.Data.MintAuthority = NewAuthority(mintAuthority)
	mint.Data.Supply = supply
	mint.Data.Decimals = decimals
	mint.Data.IsInitialized = true
	mint.Data.FreezeAuthority = freezeAuthority
	l.log.Debug("mint initialized", zap.Stringer("mint", mint.ID), zap.Uint8("decimals", decimals))
	return nil
}

/*
InitializeAccount links the uninitialized account record to the mint. Both
the balance and the delegated amount get their own zero handle.
*/
func (l *Ledger) InitializeAccount(account *AccountUnit, mint *MintUnit, owner types.Principal, payer types.Principal) error {
	if err := checkMintUnit(mint); err != nil {
		return err
	}
	if err := checkAccountUnit(account); err != nil {
		return err
	}
	if err := requireMintInitialized(mint.Data); err != nil {
		return err
	}
	if err := requireAccountUninitialized(account.Data); err != nil {
		return err
	}

	amount, err := l.zero(payer)
	if err != nil {
		return err
	}
	delegated, err := l.zero(payer)
	if err != nil {
		return err
	}

	acc := account.Data
	acc.Mint = bytes.Clone(mint.ID)
	acc.Owner = owner
	acc.Amount = amount
	acc.Delegate = Authority{}
	acc.State = AccountInitialized
	acc.IsNative = NativeAmount{}
	acc.DelegatedAmount = delegated
	acc.CloseAuthority = Authority{}
	l.log.Debug("account initialized", zap.Stringer("account", account.ID), zap.Stringer("mint", mint.ID))
	return nil
}
