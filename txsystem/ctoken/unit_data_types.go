package ctoken

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/alphabill-org/alphabill-go-ctoken/cbor"
	"github.com/alphabill-org/alphabill-go-ctoken/fhe"
	abhash "github.com/alphabill-org/alphabill-go-ctoken/hash"
	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

// sizes of the fixed width optional slots: 4 byte tag followed by the value
const (
	authoritySlotLength = 4 + types.PrincipalLength
	nativeSlotLength    = 4 + 8
)

var _ types.UnitData = (*MintData)(nil)
var _ types.UnitData = (*AccountData)(nil)
var _ types.UnitData = (*ReserveData)(nil)

type AccountState uint8

const (
	AccountUninitialized AccountState = 0
	AccountInitialized   AccountState = 1
	AccountFrozen        AccountState = 2
)

func (s AccountState) String() string {
	switch s {
	case AccountUninitialized:
		return "uninitialized"
	case AccountInitialized:
		return "initialized"
	case AccountFrozen:
		return "frozen"
	default:
		return fmt.Sprintf("AccountState(%d)", uint8(s))
	}
}

/*
Authority is an optional principal. The zero value is disabled authority,
meaning the capability guarded by it is turned off permanently.
*/
type Authority struct {
	key     types.Principal
	enabled bool
}

func NewAuthority(p types.Principal) Authority {
	return Authority{key: p, enabled: true}
}

func (a Authority) Get() (types.Principal, bool) {
	return a.key, a.enabled
}

func (a Authority) IsSet() bool {
	return a.enabled
}

// Is returns true when the authority is set to p.
func (a Authority) Is(p types.Principal) bool {
	return a.enabled && a.key == p
}

func (a Authority) String() string {
	if !a.enabled {
		return "none"
	}
	return a.key.String()
}

func (a Authority) MarshalCBOR() ([]byte, error) {
	var buf [authoritySlotLength]byte
	if a.enabled {
		binary.LittleEndian.PutUint32(buf[:4], 1)
		copy(buf[4:], a.key[:])
	}
	return cbor.Marshal(buf[:])
}

func (a *Authority) UnmarshalCBOR(data []byte) error {
	var buf []byte
	if err := cbor.Unmarshal(data, &buf); err != nil {
		return err
	}
	if len(buf) != authoritySlotLength {
		return fmt.Errorf("invalid authority slot length %d", len(buf))
	}
	switch tag := binary.LittleEndian.Uint32(buf[:4]); tag {
	case 0:
		if !bytes.Equal(buf[4:], make([]byte, types.PrincipalLength)) {
			return fmt.Errorf("disabled authority slot has non-zero key")
		}
		*a = Authority{}
	case 1:
		a.enabled = true
		copy(a.key[:], buf[4:])
	default:
		return fmt.Errorf("invalid authority tag %d", tag)
	}
	return nil
}

func (a Authority) MarshalText() ([]byte, error) {
	if !a.enabled {
		return []byte{}, nil
	}
	return a.key.MarshalText()
}

func (a *Authority) UnmarshalText(src []byte) error {
	if len(src) == 0 {
		*a = Authority{}
		return nil
	}
	var p types.Principal
	if err := p.UnmarshalText(src); err != nil {
		return err
	}
	*a = NewAuthority(p)
	return nil
}

// NativeAmount is the optional rent-exempt reserve marker of wrapped native accounts.
type NativeAmount struct {
	amount uint64
	set    bool
}

func NewNativeAmount(v uint64) NativeAmount {
	return NativeAmount{amount: v, set: true}
}

func (n NativeAmount) Get() (uint64, bool) {
	return n.amount, n.set
}

func (n NativeAmount) MarshalCBOR() ([]byte, error) {
	var buf [nativeSlotLength]byte
	if n.set {
		binary.LittleEndian.PutUint32(buf[:4], 1)
		binary.LittleEndian.PutUint64(buf[4:], n.amount)
	}
	return cbor.Marshal(buf[:])
}

func (n *NativeAmount) UnmarshalCBOR(data []byte) error {
	var buf []byte
	if err := cbor.Unmarshal(data, &buf); err != nil {
		return err
	}
	if len(buf) != nativeSlotLength {
		return fmt.Errorf("invalid native amount slot length %d", len(buf))
	}
	switch tag := binary.LittleEndian.Uint32(buf[:4]); tag {
	case 0:
		*n = NativeAmount{}
	case 1:
		*n = NewNativeAmount(binary.LittleEndian.Uint64(buf[4:]))
	default:
		return fmt.Errorf("invalid native amount tag %d", tag)
	}
	return nil
}

func (n NativeAmount) MarshalText() ([]byte, error) {
	if !n.set {
		return []byte{}, nil
	}
	return []byte(hexutil.EncodeUint64(n.amount)), nil
}

func (n *NativeAmount) UnmarshalText(src []byte) error {
	if len(src) == 0 {
		*n = NativeAmount{}
		return nil
	}
	v, err := hexutil.DecodeUint64(string(src))
	if err != nil {
		return err
	}
	*n = NewNativeAmount(v)
	return nil
}

type MintData struct {
	MintAuthority   Authority  `json:"mintAuthority"`   // authority allowed to mint new tokens; disabled means fixed supply
	Supply          fhe.Handle `json:"supply"`          // total supply (encrypted)
	Decimals        uint8      `json:"decimals"`        // number of base 10 digits to the right of the decimal place
	IsInitialized   bool       `json:"isInitialized"`   // set once by InitializeMint
	FreezeAuthority Authority  `json:"freezeAuthority"` // authority allowed to freeze accounts of the mint
}

type AccountData struct {
	Mint            types.UnitID    `json:"mint"`            // the mint of the tokens, immutable
	Owner           types.Principal `json:"owner"`           // the owner of the account
	Amount          fhe.Handle      `json:"amount"`          // balance (encrypted)
	Delegate        Authority       `json:"delegate"`        // principal allowed to spend on behalf of the owner
	State           AccountState    `json:"state"`           // see AccountState constants
	IsNative        NativeAmount    `json:"isNative"`        // rent-exempt reserve marker of native accounts
	DelegatedAmount fhe.Handle      `json:"delegatedAmount"` // amount approved for the delegate (encrypted)
	CloseAuthority  Authority       `json:"closeAuthority"`  // principal allowed to close the account besides the owner
	Reserve         uint64          `json:"reserve,string"`  // plaintext reserve released to the destination on close
}

// ReserveData holds reserves reclaimed from closed accounts.
type ReserveData struct {
	Holder  types.Principal `json:"holder"`
	Balance uint64          `json:"balance,string"`
}

func (m *MintData) Write(hasher abhash.Hasher) {
	hasher.Write(m)
}

func (m *MintData) Copy() types.UnitData {
	if m == nil {
		return nil
	}
	return &MintData{
		MintAuthority:   m.MintAuthority,
		Supply:          m.Supply,
		Decimals:        m.Decimals,
		IsInitialized:   m.IsInitialized,
		FreezeAuthority: m.FreezeAuthority,
	}
}

func (a *AccountData) Write(hasher abhash.Hasher) {
	hasher.Write(a)
}

func (a *AccountData) Copy() types.UnitData {
	if a == nil {
		return nil
	}
	return &AccountData{
		Mint:            bytes.Clone(a.Mint),
		Owner:           a.Owner,
		Amount:          a.Amount,
		Delegate:        a.Delegate,
		State:           a.State,
		IsNative:        a.IsNative,
		DelegatedAmount: a.DelegatedAmount,
		CloseAuthority:  a.CloseAuthority,
		Reserve:         a.Reserve,
	}
}

func (r *ReserveData) Write(hasher abhash.Hasher) {
	hasher.Write(r)
}

func (r *ReserveData) Copy() types.UnitData {
	if r == nil {
		return nil
	}
	return &ReserveData{
		Holder:  r.Holder,
		Balance: r.Balance,
	}
}
