package ctoken

import (
	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

/*
Burn destroys the amount from the account balance and the mint supply when
the balance covers it, otherwise zero is burned (see Transfer).
*/
func (l *Ledger) Burn(account *AccountUnit, mint *MintUnit, amount Amount, signer types.Principal) error {
	return l.burn(account, mint, amount, nil, signer)
}

// BurnChecked is Burn which also asserts the decimals of the mint.
func (l *Ledger) BurnChecked(account *AccountUnit, mint *MintUnit, amount Amount, decimals uint8, signer types.Principal) error {
	return l.burn(account, mint, amount, &decimals, signer)
}

func (l *Ledger) burn(account *AccountUnit, mint *MintUnit, amount Amount, decimals *uint8, signer types.Principal) error {
	if err := checkAccountUnit(account); err != nil {
		return err
	}
	if err := checkMintUnit(mint); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := requireSpendable(account.Data); err != nil {
		return err
	}
	if err := requireMintInitialized(mint.Data); err != nil {
		return err
	}
	if err := requireLinked(account.Data, mint.ID); err != nil {
		return err
	}
	if decimals != nil {
		if err := requireSameDecimals(mint.Data, *decimals); err != nil {
			return err
		}
	}
	if err := requireOwnerOrDelegate(account.Data, signer); err != nil {
		return err
	}

	value, err := l.amountHandle(amount, signer)
	if err != nil {
		return err
	}
	burned, err := l.affordable(account.Data.Amount, value, signer)
	if err != nil {
		return err
	}
	balance, err := l.sub(account.Data.Amount, burned, signer)
	if err != nil {
		return err
	}
	supply, err := l.sub(mint.Data.Supply, burned, signer)
	if err != nil {
		return err
	}

	account.Data.Amount = balance
	mint.Data.Supply = supply
	l.log.Debug("burned", zap.Stringer("account", account.ID), zap.Stringer("mint", mint.ID))
	return nil
}
