package ctoken

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
	"github.com/alphabill-org/alphabill-go-ctoken/util"
)

/*
CloseAccount moves the plaintext reserve of the account to the destination
and leaves the account ready to be released by the storage.

The encrypted balance is NOT checked: the ledger can't tell whether it is
zero. Verifying that (eg by decrypting the balance) before closing is the
obligation of the caller, tokens left on the account are lost.
*/
func (l *Ledger) CloseAccount(account *AccountUnit, destination *ReserveUnit, signer types.Principal) error {
	if err := checkAccountUnit(account); err != nil {
		return err
	}
	if destination == nil || destination.Data == nil {
		return errors.New("destination unit is nil")
	}
	if err := requireAccountInitialized(account.Data); err != nil {
		return err
	}
	if err := requireOwnerOrCloseAuthority(account.Data, signer); err != nil {
		return err
	}
	balance, ok := util.SafeAdd(destination.Data.Balance, account.Data.Reserve)
	if !ok {
		return fmt.Errorf("%w: destination reserve %d + %d", ErrNumericOverflow, destination.Data.Balance, account.Data.Reserve)
	}

	l.log.Warn("closing account without encrypted balance verification",
		zap.Stringer("account", account.ID), zap.Stringer("destination", destination.ID))
	destination.Data.Balance = balance
	account.Data.Reserve = 0
	return nil
}
