package hash

import (
	"hash"

	"github.com/alphabill-org/alphabill-go-ctoken/cbor"
	fxcbor "github.com/fxamacker/cbor/v2"
)

// Hasher is what ledger records write themselves into to produce their state hash.
type Hasher interface {
	Write(any)
	WriteRaw([]byte)
	Reset()
	Sum() ([]byte, error)
	Size() int
}

/*
New returns a Hasher on top of h. Values are CBOR encoded with the options
used for stored records and instructions, so a record hashes to the same
value before and after a round trip through the store.
*/
func New(h hash.Hash) *RecordHasher {
	return &RecordHasher{h: h, enc: cbor.NewEncoder(h)}
}

type RecordHasher struct {
	h   hash.Hash
	enc *fxcbor.Encoder
	err error
}

// Write encodes v and adds the encoding to the hash. After the first
// failure all further writes are ignored.
func (rh *RecordHasher) Write(v any) {
	if rh.err == nil {
		rh.err = rh.enc.Encode(v)
	}
}

// WriteRaw adds d to the hash without encoding it.
func (rh *RecordHasher) WriteRaw(d []byte) {
	if rh.err == nil {
		_, rh.err = rh.h.Write(d)
	}
}

func (rh *RecordHasher) Reset() {
	rh.h.Reset()
	rh.enc = cbor.NewEncoder(rh.h)
	rh.err = nil
}

func (rh *RecordHasher) Size() int {
	return rh.h.Size()
}

// Sum returns the digest and the first write error, the digest is
// meaningless when the error is not nil.
func (rh *RecordHasher) Sum() ([]byte, error) {
	return rh.h.Sum(nil), rh.err
}
