package ctoken

import (
	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

/*
SetMintAuthority replaces the mint authority, the signer must be the current
one. Setting disabled authority fixes the supply for good.
*/
func (l *Ledger) SetMintAuthority(mint *MintUnit, newAuthority Authority, signer types.Principal) error {
	if err := checkMintUnit(mint); err != nil {
		return err
	}
	if err := requireMintInitialized(mint.Data); err != nil {
		return err
	}
	if err := requireAuthority(signer, mint.Data.MintAuthority, reasonFixedSupply); err != nil {
		return err
	}
	mint.Data.MintAuthority = newAuthority
	l.log.Debug("mint authority set", zap.Stringer("mint", mint.ID), zap.Stringer("authority", newAuthority))
	return nil
}

// SetFreezeAuthority replaces the freeze authority of the mint, the signer must be the current one.
func (l *Ledger) SetFreezeAuthority(mint *MintUnit, newAuthority Authority, signer types.Principal) error {
	if err := checkMintUnit(mint); err != nil {
		return err
	}
	if err := requireMintInitialized(mint.Data); err != nil {
		return err
	}
	if err := requireAuthority(signer, mint.Data.FreezeAuthority, reasonMintCannotFreeze); err != nil {
		return err
	}
	mint.Data.FreezeAuthority = newAuthority
	l.log.Debug("freeze authority set", zap.Stringer("mint", mint.ID), zap.Stringer("authority", newAuthority))
	return nil
}

// SetAccountOwner hands the account over to the new owner. Frozen accounts can change owner too.
func (l *Ledger) SetAccountOwner(account *AccountUnit, newOwner types.Principal, signer types.Principal) error {
	if err := checkAccountUnit(account); err != nil {
		return err
	}
	if err := requireAccountInitialized(account.Data); err != nil {
		return err
	}
	if err := requireOwner(account.Data, signer); err != nil {
		return err
	}
	account.Data.Owner = newOwner
	l.log.Debug("account owner set", zap.Stringer("account", account.ID), zap.Stringer("owner", newOwner))
	return nil
}

// SetCloseAuthority sets (or with disabled authority removes) the close authority, only the owner can do it.
func (l *Ledger) SetCloseAuthority(account *AccountUnit, newAuthority Authority, signer types.Principal) error {
	if err := checkAccountUnit(account); err != nil {
		return err
	}
	if err := requireAccountInitialized(account.Data); err != nil {
		return err
	}
	if err := requireOwner(account.Data, signer); err != nil {
		return err
	}
	account.Data.CloseAuthority = newAuthority
	l.log.Debug("close authority set", zap.Stringer("account", account.ID), zap.Stringer("authority", newAuthority))
	return nil
}
