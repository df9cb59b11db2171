package ctoken

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/alphabill-org/alphabill-go-ctoken/cbor"
	"github.com/alphabill-org/alphabill-go-ctoken/fhe"
	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

/*
Stored layout of the records. Every field is a fixed width byte string (or
bool) so the encoded size of a record doesn't depend on the values in it.
Integers are big-endian, unset mint ID is all zeroes.
*/
type (
	mintRecord struct {
		_               struct{} `cbor:",toarray"`
		MintAuthority   Authority
		Supply          fhe.Handle
		Decimals        [1]byte
		IsInitialized   bool
		FreezeAuthority Authority
	}

	accountRecord struct {
		_               struct{} `cbor:",toarray"`
		Mint            [UnitIDLength]byte
		Owner           types.Principal
		Amount          fhe.Handle
		Delegate        Authority
		State           [1]byte
		IsNative        NativeAmount
		DelegatedAmount fhe.Handle
		CloseAuthority  Authority
		Reserve         [8]byte
	}

	reserveRecord struct {
		_       struct{} `cbor:",toarray"`
		Holder  types.Principal
		Balance [8]byte
	}
)

func (m *MintData) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(&mintRecord{
		MintAuthority:   m.MintAuthority,
		Supply:          m.Supply,
		Decimals:        [1]byte{m.Decimals},
		IsInitialized:   m.IsInitialized,
		FreezeAuthority: m.FreezeAuthority,
	})
}

func (m *MintData) UnmarshalCBOR(data []byte) error {
	var r mintRecord
	if err := cbor.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("decoding mint record: %w", err)
	}
	*m = MintData{
		MintAuthority:   r.MintAuthority,
		Supply:          r.Supply,
		Decimals:        r.Decimals[0],
		IsInitialized:   r.IsInitialized,
		FreezeAuthority: r.FreezeAuthority,
	}
	return nil
}

func (a *AccountData) MarshalCBOR() ([]byte, error) {
	r := &accountRecord{
		Owner:           a.Owner,
		Amount:          a.Amount,
		Delegate:        a.Delegate,
		State:           [1]byte{byte(a.State)},
		IsNative:        a.IsNative,
		DelegatedAmount: a.DelegatedAmount,
		CloseAuthority:  a.CloseAuthority,
	}
	if len(a.Mint) != 0 {
		if len(a.Mint) != UnitIDLength {
			return nil, fmt.Errorf("invalid mint ID length %d", len(a.Mint))
		}
		copy(r.Mint[:], a.Mint)
	}
	binary.BigEndian.PutUint64(r.Reserve[:], a.Reserve)
	return cbor.Marshal(r)
}

func (a *AccountData) UnmarshalCBOR(data []byte) error {
	var r accountRecord
	if err := cbor.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("decoding account record: %w", err)
	}
	*a = AccountData{
		Owner:           r.Owner,
		Amount:          r.Amount,
		Delegate:        r.Delegate,
		State:           AccountState(r.State[0]),
		IsNative:        r.IsNative,
		DelegatedAmount: r.DelegatedAmount,
		CloseAuthority:  r.CloseAuthority,
		Reserve:         binary.BigEndian.Uint64(r.Reserve[:]),
	}
	if r.Mint != [UnitIDLength]byte{} {
		a.Mint = bytes.Clone(r.Mint[:])
	}
	return nil
}

func (r *ReserveData) MarshalCBOR() ([]byte, error) {
	rec := &reserveRecord{Holder: r.Holder}
	binary.BigEndian.PutUint64(rec.Balance[:], r.Balance)
	return cbor.Marshal(rec)
}

func (r *ReserveData) UnmarshalCBOR(data []byte) error {
	var rec reserveRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decoding reserve record: %w", err)
	}
	*r = ReserveData{Holder: rec.Holder, Balance: binary.BigEndian.Uint64(rec.Balance[:])}
	return nil
}
