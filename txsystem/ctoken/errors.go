package ctoken

import "errors"

var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotInitialized     = errors.New("not initialized")
	ErrWrongState         = errors.New("invalid account state")
	ErrFrozen             = errors.New("account is frozen")
	ErrMintMismatch       = errors.New("account not associated with this mint")
	ErrUnauthorized       = errors.New("unauthorized")
	// authority field is not set, the operation it guards is disabled for good
	ErrCapabilityDisabled = errors.New("capability disabled")
	ErrDecimalsMismatch   = errors.New("decimals mismatch")
	ErrNumericOverflow    = errors.New("numeric overflow")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrUnknownInstruction = errors.New("unknown instruction type")
)

// reasons for ErrCapabilityDisabled
const (
	reasonFixedSupply      = "fixed supply, mint cannot mint additional tokens"
	reasonMintCannotFreeze = "mint cannot freeze accounts"
)
