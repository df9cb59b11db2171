package state

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-go-ctoken/cbor"
	"github.com/alphabill-org/alphabill-go-ctoken/config"
	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

const (
	unitKeyPrefix = 0x01

	// records are tagged with recordTagBase + the type byte of the unit ID
	recordTagBase cbor.Tag = 1000
)

/*
PebbleStore keeps the records CBOR encoded in a pebble database. Every record
is wrapped into a CBOR tag derived from the type of the unit, so record stored
as one kind can't be decoded as another.
*/
type PebbleStore struct {
	db      *pebble.DB
	newData UnitDataConstructor
	log     *zap.Logger
}

/*
NewPebbleStore opens (or creates) the database in cfg.Path. The opts may be
nil, tests use it to run the store on in-memory file system.
*/
func NewPebbleStore(log *zap.Logger, cfg *config.DBConfig, newData UnitDataConstructor, opts *pebble.Options) (*PebbleStore, error) {
	if newData == nil {
		return nil, errors.New("unit data constructor is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts == nil {
		opts = &pebble.Options{}
	}
	fs := opts.FS
	if fs == nil {
		fs = vfs.Default
	}
	if _, err := fs.Stat(cfg.Path); err == nil {
		log.Info("store found", zap.String("path", cfg.Path))
	} else {
		log.Info("store not found, creating", zap.String("path", cfg.Path))
	}

	db, err := pebble.Open(cfg.Path, opts)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	return &PebbleStore{db: db, newData: newData, log: log}, nil
}

func unitKey(id types.UnitID) []byte {
	key := make([]byte, 0, len(id)+1)
	key = append(key, unitKeyPrefix)
	return append(key, id...)
}

func recordTag(id types.UnitID) (cbor.Tag, error) {
	if len(id) == 0 {
		return 0, errors.New("empty unit ID")
	}
	return recordTagBase + cbor.Tag(id[len(id)-1]), nil
}

func (s *PebbleStore) Load(id types.UnitID) (types.UnitData, error) {
	value, closer, err := s.db.Get(unitKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, errors.Wrap(err, "load")
	}
	defer closer.Close()
	return s.decode(id, value)
}

func (s *PebbleStore) decode(id types.UnitID, value []byte) (types.UnitData, error) {
	tag, err := recordTag(id)
	if err != nil {
		return nil, err
	}
	data, err := s.newData(id)
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if err := cbor.UnmarshalTaggedValue(tag, value, data); err != nil {
		return nil, errors.Wrapf(err, "decode unit %s", id)
	}
	return data, nil
}

func (s *PebbleStore) Begin() Tx {
	return &pebbleTx{store: s, b: s.db.NewIndexedBatch()}
}

func (s *PebbleStore) Close() error {
	return errors.Wrap(s.db.Close(), "close store")
}

type pebbleTx struct {
	store *PebbleStore
	b     *pebble.Batch
	done  bool
}

func (tx *pebbleTx) exists(key []byte) (bool, error) {
	_, closer, err := tx.b.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, closer.Close()
}

func (tx *pebbleTx) Create(id types.UnitID, data types.UnitData) error {
	return tx.set(id, data, true)
}

func (tx *pebbleTx) Persist(id types.UnitID, data types.UnitData) error {
	return tx.set(id, data, false)
}

func (tx *pebbleTx) set(id types.UnitID, data types.UnitData, create bool) error {
	if tx.done {
		return ErrTxDone
	}
	key := unitKey(id)
	exists, err := tx.exists(key)
	if err != nil {
		return errors.Wrap(err, "set")
	}
	if create && exists {
		return fmt.Errorf("%w: %s", ErrExists, id)
	}
	if !create && !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	tag, err := recordTag(id)
	if err != nil {
		return err
	}
	value, err := cbor.MarshalTaggedValue(tag, data)
	if err != nil {
		return errors.Wrapf(err, "encode unit %s", id)
	}
	return errors.Wrap(tx.b.Set(key, value, nil), "set")
}

func (tx *pebbleTx) Release(id types.UnitID) error {
	if tx.done {
		return ErrTxDone
	}
	key := unitKey(id)
	exists, err := tx.exists(key)
	if err != nil {
		return errors.Wrap(err, "release")
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return errors.Wrap(tx.b.Delete(key, nil), "release")
}

func (tx *pebbleTx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	tx.done = true
	err := tx.b.Commit(pebble.Sync)
	if cerr := tx.b.Close(); cerr != nil {
		tx.store.log.Warn("closing committed batch", zap.Error(cerr))
	}
	return errors.Wrap(err, "commit")
}

func (tx *pebbleTx) Abort() {
	if tx.done {
		return
	}
	tx.done = true
	if err := tx.b.Close(); err != nil {
		tx.store.log.Warn("closing aborted batch", zap.Error(err))
	}
}

/*
Open returns the store configured by cfg: MemoryStore when cfg.InMemory is
set, PebbleStore otherwise.
*/
func Open(cfg *config.DBConfig, log *zap.Logger, newData UnitDataConstructor) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		return nil, errors.New("db config is nil")
	}
	c := cfg.WithDefaults()
	if c.InMemory {
		log.Info("using in-memory store")
		return NewMemoryStore(), nil
	}
	return NewPebbleStore(log, &c, newData, nil)
}
