package ctoken

import (
	"testing"

	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/fhe"
	"github.com/alphabill-org/alphabill-go-ctoken/fhe/plaintext"
	"github.com/alphabill-org/alphabill-go-ctoken/txsystem/ctoken"
	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

// Env is a ledger backed by the plaintext engine, so the tests can look behind the handles.
type Env struct {
	Engine *plaintext.Engine
	Ledger *ctoken.Ledger
	Payer  types.Principal
}

func NewEnv(t *testing.T, log *zap.Logger, opts ...plaintext.Option) *Env {
	engine := plaintext.New(opts...)
	return &Env{
		Engine: engine,
		Ledger: ctoken.NewLedger(engine, log),
		Payer:  NewPrincipal(t),
	}
}

// Amount returns ciphertext amount argument the plaintext engine accepts.
func Amount(v uint64) ctoken.Amount {
	return ctoken.CiphertextAmount(plaintext.Encrypt(v), fhe.InputTypeEuint128)
}

// NewMint returns initialized mint with zero supply.
func (env *Env) NewMint(t *testing.T, decimals uint8, mintAuthority types.Principal, freezeAuthority ctoken.Authority) *ctoken.MintUnit {
	t.Helper()
	mint := &ctoken.MintUnit{ID: NewMintID(t), Data: &ctoken.MintData{}}
	if err := env.Ledger.InitializeMint(mint, decimals, mintAuthority, freezeAuthority, env.Payer); err != nil {
		t.Fatal("initializing mint:", err)
	}
	return mint
}

// NewAccount returns initialized account of the owner with zero balance.
func (env *Env) NewAccount(t *testing.T, mint *ctoken.MintUnit, owner types.Principal) *ctoken.AccountUnit {
	t.Helper()
	account := &ctoken.AccountUnit{ID: NewAccountID(t), Data: &ctoken.AccountData{}}
	if err := env.Ledger.InitializeAccount(account, mint, owner, env.Payer); err != nil {
		t.Fatal("initializing account:", err)
	}
	return account
}

// Value decrypts the handle, it must fit into uint64.
func (env *Env) Value(t *testing.T, h fhe.Handle) uint64 {
	t.Helper()
	v, err := env.Engine.Decrypt(h)
	if err != nil {
		t.Fatal("decrypting handle:", err)
	}
	if !v.IsUint64() {
		t.Fatalf("value %s doesn't fit into uint64", v)
	}
	return v.Uint64()
}

func (env *Env) Balance(t *testing.T, account *ctoken.AccountUnit) uint64 {
	t.Helper()
	return env.Value(t, account.Data.Amount)
}

func (env *Env) Supply(t *testing.T, mint *ctoken.MintUnit) uint64 {
	t.Helper()
	return env.Value(t, mint.Data.Supply)
}
