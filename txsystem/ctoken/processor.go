package ctoken

import (
	"crypto"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/config"
	"github.com/alphabill-org/alphabill-go-ctoken/fhe"
	"github.com/alphabill-org/alphabill-go-ctoken/state"
	"github.com/alphabill-org/alphabill-go-ctoken/types"
	"github.com/alphabill-org/alphabill-go-ctoken/util"
)

type (
	/*
	Processor executes instructions against the records in the store. The
	units named by the instruction are locked for the duration of the
	execution, the ledger operates on copies of the records and the changes
	are committed in a single store transaction only when the operation
	succeeds.
	*/
	Processor struct {
		ledger         *Ledger
		store          state.Store
		locks          *state.Locks
		planners       map[uint16]planner
		accountReserve uint64
		hashAlgorithm  crypto.Hash
		log            *zap.Logger
	}

	Option func(*Processor)

	ExecutionResult struct {
		Type            uint16
		InstructionHash []byte
		Changes         []UnitChange // units the instruction modified, in the order they were first accessed
	}

	UnitChange struct {
		UnitID    types.UnitID
		Released  bool
		StateHash []byte // hash of the new record, nil when released
	}

	// plan is the decoded instruction: the units to lock and the operation to run on them.
	plan struct {
		units []types.UnitID
		run   func(ec *execContext) error
	}

	planner func(ins *types.Instruction) (*plan, error)
)

// WithAccountReserve sets the plaintext reserve of the accounts created by the processor.
func WithAccountReserve(reserve uint64) Option {
	return func(p *Processor) {
		p.accountReserve = reserve
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(p *Processor) {
		p.log = log
	}
}

// WithHashAlgorithm sets the algorithm of the state and instruction hashes, default is SHA256.
func WithHashAlgorithm(algorithm crypto.Hash) Option {
	return func(p *Processor) {
		p.hashAlgorithm = algorithm
	}
}

func NewProcessor(engine fhe.Engine, store state.Store, opts ...Option) (*Processor, error) {
	if engine == nil {
		return nil, errors.New("engine is nil")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	p := &Processor{
		store:         store,
		locks:         state.NewLocks(),
		hashAlgorithm: crypto.SHA256,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	p.ledger = NewLedger(engine, p.log)
	p.planners = map[uint16]planner{
		TransactionTypeInitializeMint:                    p.planInitializeMint,
		TransactionTypeInitializeAccount:                 p.planInitializeAccount,
		TransactionTypeCreateAssociatedAccount:           p.planCreateAssociatedAccount(false),
		TransactionTypeCreateAssociatedAccountIdempotent: p.planCreateAssociatedAccount(true),
		TransactionTypeMintTo:                            p.planMintTo,
		TransactionTypeMintToChecked:                     p.planMintToChecked,
		TransactionTypeTransfer:                          p.planTransfer,
		TransactionTypeTransferChecked:                   p.planTransferChecked,
		TransactionTypeApprove:                           p.planApprove,
		TransactionTypeApproveChecked:                    p.planApproveChecked,
		TransactionTypeRevoke:                            p.planRevoke,
		TransactionTypeBurn:                              p.planBurn,
		TransactionTypeBurnChecked:                       p.planBurnChecked,
		TransactionTypeFreezeAccount:                     p.planFreeze(true),
		TransactionTypeThawAccount:                       p.planFreeze(false),
		TransactionTypeCloseAccount:                      p.planCloseAccount,
		TransactionTypeSetMintAuthority:                  p.planSetMintAuthority,
		TransactionTypeSetFreezeAuthority:                p.planSetFreezeAuthority,
		TransactionTypeSetAccountOwner:                   p.planSetAccountOwner,
		TransactionTypeSetCloseAuthority:                 p.planSetCloseAuthority,
	}
	return p, nil
}

/*
NewProcessorFromConfig opens the store described by the config and returns
processor using it. Processor.Close closes the store.
*/
func NewProcessorFromConfig(cfg *config.Config, engine fhe.Engine, log *zap.Logger) (*Processor, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	c := cfg.WithDefaults()
	store, err := state.Open(c.DB, log, NewUnitData)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	p, err := NewProcessor(engine, store, WithLogger(log), WithAccountReserve(c.Ledger.AccountReserve))
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}
	return p, nil
}

// UnitIDs returns the IDs of the changed units.
func (r *ExecutionResult) UnitIDs() []types.UnitID {
	return util.TransformSlice(r.Changes, func(c UnitChange) types.UnitID { return c.UnitID })
}

func (p *Processor) Close() error {
	return p.store.Close()
}

// Ledger returns the ledger the processor executes the operations with.
func (p *Processor) Ledger() *Ledger {
	return p.ledger
}

/*
Execute runs the instruction. The Signer of the instruction must already be
verified by the caller. On error no record is modified.
*/
func (p *Processor) Execute(ins *types.Instruction) (*ExecutionResult, error) {
	if ins == nil {
		return nil, types.ErrInstructionIsNil
	}
	planFn, ok := p.planners[ins.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownInstruction, ins.Type)
	}
	insHash, err := ins.Hash(p.hashAlgorithm)
	if err != nil {
		return nil, err
	}
	pl, err := planFn(ins)
	if err != nil {
		return nil, fmt.Errorf("instruction %d: %w", ins.Type, err)
	}

	unlock := p.locks.Lock(pl.units...)
	defer unlock()

	ec := newExecContext(p.store, p.hashAlgorithm)
	if err := pl.run(ec); err != nil {
		p.log.Debug("instruction failed", zap.Uint16("type", ins.Type), zap.Error(err))
		return nil, fmt.Errorf("instruction %d: %w", ins.Type, err)
	}
	changes, err := ec.commit()
	if err != nil {
		return nil, fmt.Errorf("instruction %d: committing changes: %w", ins.Type, err)
	}
	p.log.Debug("instruction executed", zap.Uint16("type", ins.Type), zap.Int("changes", len(changes)))
	return &ExecutionResult{Type: ins.Type, InstructionHash: insHash, Changes: changes}, nil
}

func (p *Processor) Mint(id types.UnitID) (*MintUnit, error) {
	return getUnit[*MintData](p.store, id, MintUnitType)
}

func (p *Processor) Account(id types.UnitID) (*AccountUnit, error) {
	return getUnit[*AccountData](p.store, id, AccountUnitType)
}

func (p *Processor) Reserve(holder types.Principal) (*ReserveUnit, error) {
	return getUnit[*ReserveData](p.store, NewReserveID(holder), ReserveUnitType)
}

func getUnit[T types.UnitData](store state.Store, id types.UnitID, typePart []byte) (*types.Unit[T], error) {
	if !id.HasType(typePart) {
		return nil, fmt.Errorf("unit %s: invalid unit type", id)
	}
	data, err := store.Load(id)
	if err != nil {
		return nil, err
	}
	d, ok := data.(T)
	if !ok {
		return nil, fmt.Errorf("unit %s: unexpected record type %T", id, data)
	}
	return &types.Unit[T]{ID: id, Data: d}, nil
}

func decodeAttributes[T any](ins *types.Instruction) (*T, error) {
	attr := new(T)
	if err := ins.UnmarshalAttributes(attr); err != nil {
		return nil, fmt.Errorf("decoding %T: %w", attr, err)
	}
	return attr, nil
}

// unitIDs returns the units of the instruction, there must be exactly n of them.
func unitIDs(ins *types.Instruction, n int) ([]types.UnitID, error) {
	if len(ins.Units) != n {
		return nil, fmt.Errorf("expected %d units, got %d", n, len(ins.Units))
	}
	return ins.Units, nil
}

func (p *Processor) newAccountData() types.UnitData {
	return &AccountData{Reserve: p.accountReserve}
}

func newMintData() types.UnitData {
	return &MintData{}
}

func (p *Processor) planInitializeMint(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[InitializeMintAttributes](ins)
	if err != nil {
		return nil, err
	}
	ids, err := unitIDs(ins, 1)
	if err != nil {
		return nil, err
	}
	return &plan{units: ids, run: func(ec *execContext) error {
		mint, err := loadUnit[*MintData](ec, ids[0], MintUnitType, newMintData)
		if err != nil {
			return err
		}
		return p.ledger.InitializeMint(mint, attr.Decimals, attr.MintAuthority, attr.FreezeAuthority, ins.Signer)
	}}, nil
}

func (p *Processor) planInitializeAccount(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[InitializeAccountAttributes](ins)
	if err != nil {
		return nil, err
	}
	ids, err := unitIDs(ins, 2)
	if err != nil {
		return nil, err
	}
	return &plan{units: ids, run: func(ec *execContext) error {
		account, err := loadUnit[*AccountData](ec, ids[0], AccountUnitType, p.newAccountData)
		if err != nil {
			return err
		}
		mint, err := loadUnit[*MintData](ec, ids[1], MintUnitType, nil)
		if err != nil {
			return err
		}
		return p.ledger.InitializeAccount(account, mint, attr.Owner, ins.Signer)
	}}, nil
}

/*
planCreateAssociatedAccount initializes the account of the owner at the ID
derived from the owner and the mint. The idempotent variant succeeds without
changes when the owner already has the account.
*/
func (p *Processor) planCreateAssociatedAccount(idempotent bool) planner {
	return func(ins *types.Instruction) (*plan, error) {
		attr, err := decodeAttributes[CreateAssociatedAccountAttributes](ins)
		if err != nil {
			return nil, err
		}
		ids, err := unitIDs(ins, 1)
		if err != nil {
			return nil, err
		}
		mintID := ids[0]
		accountID := NewAssociatedAccountID(attr.Owner, mintID)
		return &plan{units: []types.UnitID{mintID, accountID}, run: func(ec *execContext) error {
			mint, err := loadUnit[*MintData](ec, mintID, MintUnitType, nil)
			if err != nil {
				return err
			}
			account, err := loadUnit[*AccountData](ec, accountID, AccountUnitType, p.newAccountData)
			if err != nil {
				return err
			}
			if idempotent && account.Data.State != AccountUninitialized &&
				account.Data.Owner == attr.Owner && account.Data.Mint.Eq(mintID) {
				p.log.Debug("associated account exists", zap.Stringer("account", accountID))
				return nil
			}
			return p.ledger.InitializeAccount(account, mint, attr.Owner, ins.Signer)
		}}, nil
	}
}

func (p *Processor) planMintTo(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[MintToAttributes](ins)
	if err != nil {
		return nil, err
	}
	return p.mintToPlan(ins, attr.Amount, nil)
}

func (p *Processor) planMintToChecked(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[MintToCheckedAttributes](ins)
	if err != nil {
		return nil, err
	}
	return p.mintToPlan(ins, attr.Amount, &attr.Decimals)
}

func (p *Processor) mintToPlan(ins *types.Instruction, amount Amount, decimals *uint8) (*plan, error) {
	ids, err := unitIDs(ins, 2)
	if err != nil {
		return nil, err
	}
	return &plan{units: ids, run: func(ec *execContext) error {
		mint, err := loadUnit[*MintData](ec, ids[0], MintUnitType, nil)
		if err != nil {
			return err
		}
		account, err := loadUnit[*AccountData](ec, ids[1], AccountUnitType, nil)
		if err != nil {
			return err
		}
		if decimals != nil {
			return p.ledger.MintToChecked(mint, account, amount, *decimals, ins.Signer)
		}
		return p.ledger.MintTo(mint, account, amount, ins.Signer)
	}}, nil
}

func (p *Processor) planTransfer(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[TransferAttributes](ins)
	if err != nil {
		return nil, err
	}
	ids, err := unitIDs(ins, 2)
	if err != nil {
		return nil, err
	}
	return &plan{units: ids, run: func(ec *execContext) error {
		source, err := loadUnit[*AccountData](ec, ids[0], AccountUnitType, nil)
		if err != nil {
			return err
		}
		destination, err := loadUnit[*AccountData](ec, ids[1], AccountUnitType, nil)
		if err != nil {
			return err
		}
		return p.ledger.Transfer(source, destination, attr.Amount, ins.Signer)
	}}, nil
}

func (p *Processor) planTransferChecked(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[TransferCheckedAttributes](ins)
	if err != nil {
		return nil, err
	}
	ids, err := unitIDs(ins, 3)
	if err != nil {
		return nil, err
	}
	return &plan{units: ids, run: func(ec *execContext) error {
		source, err := loadUnit[*AccountData](ec, ids[0], AccountUnitType, nil)
		if err != nil {
			return err
		}
		mint, err := loadUnit[*MintData](ec, ids[1], MintUnitType, nil)
		if err != nil {
			return err
		}
		destination, err := loadUnit[*AccountData](ec, ids[2], AccountUnitType, nil)
		if err != nil {
			return err
		}
		return p.ledger.TransferChecked(source, mint, destination, attr.Amount, attr.Decimals, ins.Signer)
	}}, nil
}

func (p *Processor) planApprove(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[ApproveAttributes](ins)
	if err != nil {
		return nil, err
	}
	ids, err := unitIDs(ins, 1)
	if err != nil {
		return nil, err
	}
	return &plan{units: ids, run: func(ec *execContext) error {
		source, err := loadUnit[*AccountData](ec, ids[0], AccountUnitType, nil)
		if err != nil {
			return err
		}
		return p.ledger.Approve(source, attr.Delegate, attr.Amount, ins.Signer)
	}}, nil
}

func (p *Processor) planApproveChecked(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[ApproveCheckedAttributes](ins)
	if err != nil {
		return nil, err
	}
	ids, err := unitIDs(ins, 2)
	if err != nil {
		return nil, err
	}
	return &plan{units: ids, run: func(ec *execContext) error {
		source, err := loadUnit[*AccountData](ec, ids[0], AccountUnitType, nil)
		if err != nil {
			return err
		}
		mint, err := loadUnit[*MintData](ec, ids[1], MintUnitType, nil)
		if err != nil {
			return err
		}
		return p.ledger.ApproveChecked(source, mint, attr.Delegate, attr.Amount, attr.Decimals, ins.Signer)
	}}, nil
}

func (p *Processor) planRevoke(ins *types.Instruction) (*plan, error) {
	if _, err := decodeAttributes[RevokeAttributes](ins); err != nil {
		return nil, err
	}
	ids, err := unitIDs(ins, 1)
	if err != nil {
		return nil, err
	}
	return &plan{units: ids, run: func(ec *execContext) error {
		source, err := loadUnit[*AccountData](ec, ids[0], AccountUnitType, nil)
		if err != nil {
			return err
		}
		return p.ledger.Revoke(source, ins.Signer)
	}}, nil
}

func (p *Processor) planBurn(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[BurnAttributes](ins)
	if err != nil {
		return nil, err
	}
	return p.burnPlan(ins, attr.Amount, nil)
}

func (p *Processor) planBurnChecked(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[BurnCheckedAttributes](ins)
	if err != nil {
		return nil, err
	}
	return p.burnPlan(ins, attr.Amount, &attr.Decimals)
}

func (p *Processor) burnPlan(ins *types.Instruction, amount Amount, decimals *uint8) (*plan, error) {
	ids, err := unitIDs(ins, 2)
	if err != nil {
		return nil, err
	}
	return &plan{units: ids, run: func(ec *execContext) error {
		account, err := loadUnit[*AccountData](ec, ids[0], AccountUnitType, nil)
		if err != nil {
			return err
		}
		mint, err := loadUnit[*MintData](ec, ids[1], MintUnitType, nil)
		if err != nil {
			return err
		}
		if decimals != nil {
			return p.ledger.BurnChecked(account, mint, amount, *decimals, ins.Signer)
		}
		return p.ledger.Burn(account, mint, amount, ins.Signer)
	}}, nil
}

func (p *Processor) planFreeze(freeze bool) planner {
	return func(ins *types.Instruction) (*plan, error) {
		var err error
		if freeze {
			_, err = decodeAttributes[FreezeAccountAttributes](ins)
		} else {
			_, err = decodeAttributes[ThawAccountAttributes](ins)
		}
		if err != nil {
			return nil, err
		}
		ids, err := unitIDs(ins, 2)
		if err != nil {
			return nil, err
		}
		return &plan{units: ids, run: func(ec *execContext) error {
			account, err := loadUnit[*AccountData](ec, ids[0], AccountUnitType, nil)
			if err != nil {
				return err
			}
			mint, err := loadUnit[*MintData](ec, ids[1], MintUnitType, nil)
			if err != nil {
				return err
			}
			if freeze {
				return p.ledger.FreezeAccount(account, mint, ins.Signer)
			}
			return p.ledger.ThawAccount(account, mint, ins.Signer)
		}}, nil
	}
}

func (p *Processor) planCloseAccount(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[CloseAccountAttributes](ins)
	if err != nil {
		return nil, err
	}
	ids, err := unitIDs(ins, 1)
	if err != nil {
		return nil, err
	}
	reserveID := NewReserveID(attr.Destination)
	return &plan{units: []types.UnitID{ids[0], reserveID}, run: func(ec *execContext) error {
		account, err := loadUnit[*AccountData](ec, ids[0], AccountUnitType, nil)
		if err != nil {
			return err
		}
		reserve, err := loadUnit[*ReserveData](ec, reserveID, ReserveUnitType, func() types.UnitData {
			return &ReserveData{Holder: attr.Destination}
		})
		if err != nil {
			return err
		}
		if err := p.ledger.CloseAccount(account, reserve, ins.Signer); err != nil {
			return err
		}
		ec.release(account.ID)
		return nil
	}}, nil
}

func (p *Processor) planSetMintAuthority(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[SetMintAuthorityAttributes](ins)
	if err != nil {
		return nil, err
	}
	return p.mintAuthorityPlan(ins, func(mint *MintUnit) error {
		return p.ledger.SetMintAuthority(mint, attr.NewAuthority, ins.Signer)
	})
}

func (p *Processor) planSetFreezeAuthority(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[SetFreezeAuthorityAttributes](ins)
	if err != nil {
		return nil, err
	}
	return p.mintAuthorityPlan(ins, func(mint *MintUnit) error {
		return p.ledger.SetFreezeAuthority(mint, attr.NewAuthority, ins.Signer)
	})
}

func (p *Processor) mintAuthorityPlan(ins *types.Instruction, run func(*MintUnit) error) (*plan, error) {
	ids, err := unitIDs(ins, 1)
	if err != nil {
		return nil, err
	}
	return &plan{units: ids, run: func(ec *execContext) error {
		mint, err := loadUnit[*MintData](ec, ids[0], MintUnitType, nil)
		if err != nil {
			return err
		}
		return run(mint)
	}}, nil
}

func (p *Processor) planSetAccountOwner(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[SetAccountOwnerAttributes](ins)
	if err != nil {
		return nil, err
	}
	return p.accountAuthorityPlan(ins, func(account *AccountUnit) error {
		return p.ledger.SetAccountOwner(account, attr.NewOwner, ins.Signer)
	})
}

func (p *Processor) planSetCloseAuthority(ins *types.Instruction) (*plan, error) {
	attr, err := decodeAttributes[SetCloseAuthorityAttributes](ins)
	if err != nil {
		return nil, err
	}
	return p.accountAuthorityPlan(ins, func(account *AccountUnit) error {
		return p.ledger.SetCloseAuthority(account, attr.NewAuthority, ins.Signer)
	})
}

func (p *Processor) accountAuthorityPlan(ins *types.Instruction, run func(*AccountUnit) error) (*plan, error) {
	ids, err := unitIDs(ins, 1)
	if err != nil {
		return nil, err
	}
	return &plan{units: ids, run: func(ec *execContext) error {
		account, err := loadUnit[*AccountData](ec, ids[0], AccountUnitType, nil)
		if err != nil {
			return err
		}
		return run(account)
	}}, nil
}
