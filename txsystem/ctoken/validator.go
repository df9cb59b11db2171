package ctoken

import (
	"errors"
	"fmt"

	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

/*
Precondition checks of the ledger operations. They only read the records
and must all pass before an operation makes the first engine call.
*/

func checkMintUnit(mint *MintUnit) error {
	if mint == nil || mint.Data == nil {
		return errors.New("mint unit is nil")
	}
	return nil
}

func checkAccountUnit(account *AccountUnit) error {
	if account == nil || account.Data == nil {
		return errors.New("account unit is nil")
	}
	return nil
}

func requireMintInitialized(mint *MintData) error {
	if !mint.IsInitialized {
		return fmt.Errorf("mint: %w", ErrNotInitialized)
	}
	return nil
}

func requireMintUninitialized(mint *MintData) error {
	if mint.IsInitialized {
		return fmt.Errorf("mint: %w", ErrAlreadyInitialized)
	}
	return nil
}

// requireAccountInitialized accepts both initialized and frozen accounts.
func requireAccountInitialized(account *AccountData) error {
	if account.State == AccountUninitialized {
		return fmt.Errorf("account: %w", ErrNotInitialized)
	}
	return nil
}

func requireAccountUninitialized(account *AccountData) error {
	if account.State != AccountUninitialized {
		return fmt.Errorf("account: %w", ErrAlreadyInitialized)
	}
	return nil
}

func requireState(account *AccountData, expected AccountState) error {
	if account.State != expected {
		return fmt.Errorf("%w: expected %s, got %s", ErrWrongState, expected, account.State)
	}
	return nil
}

func requireNotFrozen(account *AccountData) error {
	if account.State == AccountFrozen {
		return ErrFrozen
	}
	return nil
}

// requireSpendable is the common precondition of the operations moving funds out of the account.
func requireSpendable(account *AccountData) error {
	if err := requireAccountInitialized(account); err != nil {
		return err
	}
	return requireNotFrozen(account)
}

func requireLinked(account *AccountData, mintID types.UnitID) error {
	if !account.Mint.Eq(mintID) {
		return fmt.Errorf("%w: account mint %s, got %s", ErrMintMismatch, account.Mint, mintID)
	}
	return nil
}

func requireSameDecimals(mint *MintData, decimals uint8) error {
	if mint.Decimals != decimals {
		return fmt.Errorf("%w: mint has %d decimals, got %d", ErrDecimalsMismatch, mint.Decimals, decimals)
	}
	return nil
}

/*
requireAuthority checks that the principal is the expected authority. Disabled
authority fails with ErrCapabilityDisabled (whoever the caller is), enabled
but different authority with ErrUnauthorized.
*/
func requireAuthority(principal types.Principal, expected Authority, disabledReason string) error {
	key, ok := expected.Get()
	if !ok {
		return fmt.Errorf("%w: %s", ErrCapabilityDisabled, disabledReason)
	}
	if key != principal {
		return fmt.Errorf("%w: %s is not the authority", ErrUnauthorized, principal)
	}
	return nil
}

func requireOwner(account *AccountData, principal types.Principal) error {
	if account.Owner != principal {
		return fmt.Errorf("%w: %s is not the owner", ErrUnauthorized, principal)
	}
	return nil
}

/*
requireOwnerOrDelegate does not look at the delegated amount, the delegate
may spend up to the whole balance of the account.
*/
func requireOwnerOrDelegate(account *AccountData, principal types.Principal) error {
	if account.Owner == principal || account.Delegate.Is(principal) {
		return nil
	}
	return fmt.Errorf("%w: %s is neither owner nor delegate", ErrUnauthorized, principal)
}

func requireOwnerOrCloseAuthority(account *AccountData, principal types.Principal) error {
	if account.Owner == principal || account.CloseAuthority.Is(principal) {
		return nil
	}
	return fmt.Errorf("%w: %s is neither owner nor close authority", ErrUnauthorized, principal)
}
