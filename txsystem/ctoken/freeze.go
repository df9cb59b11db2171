package ctoken

import (
	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

// FreezeAccount moves the account into frozen state, the signer must be the freeze authority of the mint.
func (l *Ledger) FreezeAccount(account *AccountUnit, mint *MintUnit, signer types.Principal) error {
	if err := l.checkFreezeAuthority(account, mint, AccountInitialized, signer); err != nil {
		return err
	}
	account.Data.State = AccountFrozen
	l.log.Debug("account frozen", zap.Stringer("account", account.ID))
	return nil
}

// ThawAccount returns the frozen account into initialized state.
func (l *Ledger) ThawAccount(account *AccountUnit, mint *MintUnit, signer types.Principal) error {
	if err := l.checkFreezeAuthority(account, mint, AccountFrozen, signer); err != nil {
		return err
	}
	account.Data.State = AccountInitialized
	l.log.Debug("account thawed", zap.Stringer("account", account.ID))
	return nil
}

func (l *Ledger) checkFreezeAuthority(account *AccountUnit, mint *MintUnit, state AccountState, signer types.Principal) error {
	if err := checkAccountUnit(account); err != nil {
		return err
	}
	if err := checkMintUnit(mint); err != nil {
		return err
	}
	if err := requireAccountInitialized(account.Data); err != nil {
		return err
	}
	if err := requireState(account.Data, state); err != nil {
		return err
	}
	if err := requireMintInitialized(mint.Data); err != nil {
		return err
	}
	if err := requireLinked(account.Data, mint.ID); err != nil {
		return err
	}
	return requireAuthority(signer, mint.Data.FreezeAuthority, reasonMintCannotFreeze)
}
