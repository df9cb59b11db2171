package ctoken

import (
	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

const (
	TransactionTypeInitializeMint uint16 = iota + 1
	TransactionTypeInitializeAccount
	TransactionTypeCreateAssociatedAccount
	TransactionTypeCreateAssociatedAccountIdempotent
	TransactionTypeMintTo
	TransactionTypeMintToChecked
	TransactionTypeTransfer
	TransactionTypeTransferChecked
	TransactionTypeApprove
	TransactionTypeApproveChecked
	TransactionTypeRevoke
	TransactionTypeBurn
	TransactionTypeBurnChecked
	TransactionTypeFreezeAccount
	TransactionTypeThawAccount
	TransactionTypeCloseAccount
	TransactionTypeSetMintAuthority
	TransactionTypeSetFreezeAuthority
	TransactionTypeSetAccountOwner
	TransactionTypeSetCloseAuthority
)

/*
Attributes of the instructions. The comment of every struct lists the units
the instruction must name in types.Instruction.Units, in that order.
*/
type (
	// Units: [mint]
	InitializeMintAttributes struct {
		_               struct{}        `cbor:",toarray"`
		Decimals        uint8           // number of base 10 digits to the right of the decimal place
		MintAuthority   types.Principal // the authority allowed to mint new tokens
		FreezeAuthority Authority       // the optional authority allowed to freeze accounts
	}

	// Units: [account, mint]
	InitializeAccountAttributes struct {
		_     struct{}        `cbor:",toarray"`
		Owner types.Principal // owner of the new account
	}

	// Units: [mint], the account ID is derived with NewAssociatedAccountID.
	CreateAssociatedAccountAttributes struct {
		_     struct{}        `cbor:",toarray"`
		Owner types.Principal // owner of the new account
	}

	// Units: [mint, account]
	MintToAttributes struct {
		_      struct{} `cbor:",toarray"`
		Amount Amount   // encrypted amount to mint
	}

	// Units: [mint, account]
	MintToCheckedAttributes struct {
		_        struct{} `cbor:",toarray"`
		Amount   Amount   // encrypted amount to mint
		Decimals uint8    // expected decimals of the mint
	}

	// Units: [source, destination]
	TransferAttributes struct {
		_      struct{} `cbor:",toarray"`
		Amount Amount   // encrypted amount to transfer
	}

	// Units: [source, mint, destination]
	TransferCheckedAttributes struct {
		_        struct{} `cbor:",toarray"`
		Amount   Amount   // encrypted amount to transfer
		Decimals uint8    // expected decimals of the mint
	}

	// Units: [source]
	ApproveAttributes struct {
		_        struct{}        `cbor:",toarray"`
		Delegate types.Principal // the new delegate of the account
		Amount   Amount          // encrypted amount the delegate is approved for
	}

	// Units: [source, mint]
	ApproveCheckedAttributes struct {
		_        struct{}        `cbor:",toarray"`
		Delegate types.Principal // the new delegate of the account
		Amount   Amount          // encrypted amount the delegate is approved for
		Decimals uint8           // expected decimals of the mint
	}

	// Units: [source]
	RevokeAttributes struct {
		_ struct{} `cbor:",toarray"`
	}

	// Units: [account, mint]
	BurnAttributes struct {
		_      struct{} `cbor:",toarray"`
		Amount Amount   // encrypted amount to burn
	}

	// Units: [account, mint]
	BurnCheckedAttributes struct {
		_        struct{} `cbor:",toarray"`
		Amount   Amount   // encrypted amount to burn
		Decimals uint8    // expected decimals of the mint
	}

	// Units: [account, mint]
	FreezeAccountAttributes struct {
		_ struct{} `cbor:",toarray"`
	}

	// Units: [account, mint]
	ThawAccountAttributes struct {
		_ struct{} `cbor:",toarray"`
	}

	// Units: [account], the reserve unit is derived from Destination with NewReserveID.
	CloseAccountAttributes struct {
		_           struct{}        `cbor:",toarray"`
		Destination types.Principal // receiver of the reserve of the account
	}

	// Units: [mint]
	SetMintAuthorityAttributes struct {
		_            struct{}  `cbor:",toarray"`
		NewAuthority Authority // disabled authority fixes the supply
	}

	// Units: [mint]
	SetFreezeAuthorityAttributes struct {
		_            struct{}  `cbor:",toarray"`
		NewAuthority Authority // disabled authority disables freezing
	}

	// Units: [account]
	SetAccountOwnerAttributes struct {
		_        struct{}        `cbor:",toarray"`
		NewOwner types.Principal // the new owner of the account
	}

	// Units: [account]
	SetCloseAuthorityAttributes struct {
		_            struct{}  `cbor:",toarray"`
		NewAuthority Authority // disabled authority leaves closing to the owner only
	}
)
