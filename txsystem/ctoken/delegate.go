package ctoken

import (
	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

/*
Approve sets the delegate of the source account and the amount it is
approved to spend. Any previous delegation is replaced.
*/
func (l *Ledger) Approve(source *AccountUnit, delegate types.Principal, amount Amount, signer types.Principal) error {
	if err := checkAccountUnit(source); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := requireSpendable(source.Data); err != nil {
		return err
	}
	if err := requireOwner(source.Data, signer); err != nil {
		return err
	}
	return l.approve(source, delegate, amount, signer)
}

// ApproveChecked is Approve which also asserts the mint of the account and its decimals.
func (l *Ledger) ApproveChecked(source *AccountUnit, mint *MintUnit, delegate types.Principal, amount Amount, decimals uint8, signer types.Principal) error {
	if err := checkAccountUnit(source); err != nil {
		return err
	}
	if err := checkMintUnit(mint); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := requireSpendable(source.Data); err != nil {
		return err
	}
	if err := requireOwner(source.Data, signer); err != nil {
		return err
	}
	if err := requireMintInitialized(mint.Data); err != nil {
		return err
	}
	if err := requireLinked(source.Data, mint.ID); err != nil {
		return err
	}
	if err := requireSameDecimals(mint.Data, decimals); err != nil {
		return err
	}
	return l.approve(source, delegate, amount, signer)
}

func (l *Ledger) approve(source *AccountUnit, delegate types.Principal, amount Amount, signer types.Principal) error {
	value, err := l.amountHandle(amount, signer)
	if err != nil {
		return err
	}
	source.Data.Delegate = NewAuthority(delegate)
	source.Data.DelegatedAmount = value
	l.log.Debug("delegate approved", zap.Stringer("account", source.ID), zap.Stringer("delegate", delegate))
	return nil
}

// Revoke removes the delegate of the account. Only the owner can revoke.
func (l *Ledger) Revoke(source *AccountUnit, signer types.Principal) error {
	if err := checkAccountUnit(source); err != nil {
		return err
	}
	if err := requireAccountInitialized(source.Data); err != nil {
		return err
	}
	if err := requireOwner(source.Data, signer); err != nil {
		return err
	}

	zero, err := l.zero(signer)
	if err != nil {
		return err
	}
	source.Data.Delegate = Authority{}
	source.Data.DelegatedAmount = zero
	l.log.Debug("delegate revoked", zap.Stringer("account", source.ID))
	return nil
}
