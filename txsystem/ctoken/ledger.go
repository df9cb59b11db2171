package ctoken

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/fhe"
	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

/*
Ledger implements the confidential token operations on top of an fhe.Engine.

Operations validate all their preconditions first and then perform a fixed
sequence of engine calls which doesn't depend on any encrypted value. The
records are modified only after all the engine calls have succeeded, so an
operation either updates all the fields it touches or none of them.

Ledger has no state of its own, the records are owned by the caller which is
also responsible for serializing operations on the same record.
*/
type Ledger struct {
	engine fhe.Engine
	log    *zap.Logger
}

func NewLedger(engine fhe.Engine, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{engine: engine, log: log}
}

func capabilityError(op string, err error) error {
	if errors.Is(err, fhe.ErrOverflow) {
		return fmt.Errorf("%w: %s: %w", ErrNumericOverflow, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (l *Ledger) zero(caller types.Principal) (fhe.Handle, error) {
	h, err := l.engine.AsEuint128(uint256.NewInt(0), caller)
	if err != nil {
		return fhe.Handle{}, capabilityError("encrypting zero", err)
	}
	return h, nil
}

// amountHandle returns handle of the amount, importing the ciphertext when needed.
func (l *Ledger) amountHandle(amount Amount, caller types.Principal) (fhe.Handle, error) {
	if amount.IsHandle() {
		return *amount.Handle, nil
	}
	h, err := l.engine.NewEuint128(amount.Ciphertext, amount.InputType, caller)
	if err != nil {
		return fhe.Handle{}, capabilityError("importing amount", err)
	}
	return h, nil
}

func (l *Ledger) add(a, b fhe.Handle, caller types.Principal) (fhe.Handle, error) {
	h, err := l.engine.Add(a, b, fhe.NoScale, caller)
	if err != nil {
		return fhe.Handle{}, capabilityError("add", err)
	}
	return h, nil
}

func (l *Ledger) sub(a, b fhe.Handle, caller types.Principal) (fhe.Handle, error) {
	h, err := l.engine.Sub(a, b, fhe.NoScale, caller)
	if err != nil {
		return fhe.Handle{}, capabilityError("sub", err)
	}
	return h, nil
}

/*
affordable returns (encrypted) amount when balance >= amount and (encrypted)
zero otherwise. The same engine calls are made in both cases and the result
of the comparison never leaves the engine.
*/
func (l *Ledger) affordable(balance, amount fhe.Handle, caller types.Principal) (fhe.Handle, error) {
	sufficient, err := l.engine.Ge(balance, amount, fhe.NoScale, caller)
	if err != nil {
		return fhe.Handle{}, capabilityError("ge", err)
	}
	zero, err := l.zero(caller)
	if err != nil {
		return fhe.Handle{}, err
	}
	h, err := l.engine.Select(sufficient, amount, zero, fhe.NoScale, caller)
	if err != nil {
		return fhe.Handle{}, capabilityError("select", err)
	}
	return h, nil
}
