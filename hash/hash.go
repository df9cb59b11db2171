package hash

import (
	"crypto"
	_ "crypto/sha256"
	"fmt"
)

/*
Sum returns hash of the values, each value is CBOR encoded before it is
added to the hash. Panics when a value can't be encoded, use New for
values which might fail to encode.
*/
func Sum(hashAlgorithm crypto.Hash, values ...any) []byte {
	hasher := New(hashAlgorithm.New())
	for _, value := range values {
		hasher.Write(value)
	}
	res, err := hasher.Sum()
	if err != nil {
		panic(fmt.Errorf("failed to calculate hash: %w", err))
	}
	return res
}

// SumRaw hashes the byte slices as they are, without additional encoding.
func SumRaw(hashAlgorithm crypto.Hash, data ...[]byte) []byte {
	hasher := hashAlgorithm.New()
	for _, d := range data {
		hasher.Write(d)
	}
	return hasher.Sum(nil)
}
