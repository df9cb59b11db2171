package ctoken

import (
	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

// MintTo adds the amount to the supply of the mint and to the balance of the account.
func (l *Ledger) MintTo(mint *MintUnit, account *AccountUnit, amount Amount, signer types.Principal) error {
	return l.mintTo(mint, account, amount, nil, signer)
}

// MintToChecked is MintTo which also asserts the decimals of the mint.
func (l *Ledger) MintToChecked(mint *MintUnit, account *AccountUnit, amount Amount, decimals uint8, signer types.Principal) error {
	return l.mintTo(mint, account, amount, &decimals, signer)
}

func (l *Ledger) mintTo(mint *MintUnit, account *AccountUnit, amount Amount, decimals *uint8, signer types.Principal) error {
	if err := checkMintUnit(mint); err != nil {
		return err
	}
	if err := checkAccountUnit(account); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := requireMintInitialized(mint.Data); err != nil {
		return err
	}
	if err := requireSpendable(account.Data); err != nil {
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
	if err := requireAuthority(signer, mint.Data.MintAuthority, reasonFixedSupply); err != nil {
		return err
	}

	value, err := l.amountHandle(amount, signer)
	if err != nil {
		return err
	}
	// overflow is whatever the engine makes of it, the ledger doesn't
	// (and can't) check the encrypted sum
	supply, err := l.add(mint.Data.Supply, value, signer)
	if err != nil {
		return err
	}
	balance, err := l.add(account.Data.Amount, value, signer)
	if err != nil {
		return err
	}

	mint.Data.Supply = supply
	account.Data.Amount = balance
	l.log.Debug("minted", zap.Stringer("mint", mint.ID), zap.Stringer("account", account.ID))
	return nil
}
