package ctoken

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

/*
Transfer moves the amount from the source account to the destination account
when the source balance covers it, otherwise zero is moved. Insufficient
balance is not an error: the outcome is encrypted and both balances are
rewritten in either case, it can only be observed by decrypting them.

The signer must be the owner or the delegate of the source account. This is
checked before the self transfer shortcut too: a transfer from an account to
itself makes no engine calls and changes nothing, but it still fails with
ErrUnauthorized when the signer may not spend from the account.
*/
func (l *Ledger) Transfer(source, destination *AccountUnit, amount Amount, signer types.Principal) error {
	if err := checkAccountUnit(source); err != nil {
		return err
	}
	if err := checkAccountUnit(destination); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := requireTransferable(source.Data, destination.Data); err != nil {
		return err
	}
	if !source.Data.Mint.Eq(destination.Data.Mint) {
		return fmt.Errorf("%w: source mint %s, destination mint %s", ErrMintMismatch, source.Data.Mint, destination.Data.Mint)
	}
	if err := requireOwnerOrDelegate(source.Data, signer); err != nil {
		return err
	}
	return l.transfer(source, destination, amount, signer)
}

// TransferChecked is Transfer which also asserts the mint of the accounts and its decimals.
func (l *Ledger) TransferChecked(source *AccountUnit, mint *MintUnit, destination *AccountUnit, amount Amount, decimals uint8, signer types.Principal) error {
	if err := checkAccountUnit(source); err != nil {
		return err
	}
	if err := checkMintUnit(mint); err != nil {
		return err
	}
	if err := checkAccountUnit(destination); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := requireTransferable(source.Data, destination.Data); err != nil {
		return err
	}
	if err := requireMintInitialized(mint.Data); err != nil {
		return err
	}
	if err := requireLinked(source.Data, mint.ID); err != nil {
		return err
	}
	if err := requireLinked(destination.Data, mint.ID); err != nil {
		return err
	}
	if err := requireSameDecimals(mint.Data, decimals); err != nil {
		return err
	}
	if err := requireOwnerOrDelegate(source.Data, signer); err != nil {
		return err
	}
	return l.transfer(source, destination, amount, signer)
}

func requireTransferable(source, destination *AccountData) error {
	if err := requireSpendable(source); err != nil {
		return fmt.Errorf("source %w", err)
	}
	if err := requireSpendable(destination); err != nil {
		return fmt.Errorf("destination %w", err)
	}
	return nil
}

func (l *Ledger) transfer(source, destination *AccountUnit, amount Amount, signer types.Principal) error {
	if source.ID.Eq(destination.ID) {
		l.log.Debug("self transfer", zap.Stringer("account", source.ID))
		return nil
	}

	value, err := l.amountHandle(amount, signer)
	if err != nil {
		return err
	}
	moved, err := l.affordable(source.Data.Amount, value, signer)
	if err != nil {
		return err
	}
	srcBalance, err := l.sub(source.Data.Amount, moved, signer)
	if err != nil {
		return err
	}
	dstBalance, err := l.add(destination.Data.Amount, moved, signer)
	if err != nil {
		return err
	}

	source.Data.Amount = srcBalance
	destination.Data.Amount = dstBalance
	l.log.Debug("transferred", zap.Stringer("source", source.ID), zap.Stringer("destination", destination.ID))
	return nil
}
