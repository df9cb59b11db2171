package types

import (
	"crypto"

	abhash "github.com/alphabill-org/alphabill-go-ctoken/hash"
)

/*
HashCBOR encodes data as CBOR and returns its hash. Encoding before hashing
keeps records with differently split byte fields from hashing equally, so data
should be a "toarray" struct.
*/
func HashCBOR(data any, hashAlgorithm crypto.Hash) ([]byte, error) {
	hasher := abhash.New(hashAlgorithm.New())
	hasher.Write(data)
	return hasher.Sum()
}
