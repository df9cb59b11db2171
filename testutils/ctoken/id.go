package ctoken

import (
	"crypto/rand"
	"testing"

	"github.com/alphabill-org/alphabill-go-ctoken/txsystem/ctoken"
	"github.com/alphabill-org/alphabill-go-ctoken/types"
)

func NewMintID(t *testing.T) types.UnitID {
	uid, err := ctoken.NewRandomMintID()
	if err != nil {
		t.Fatal("failed to generate unit ID:", err)
	}
	return uid
}

func NewAccountID(t *testing.T) types.UnitID {
	uid, err := ctoken.NewRandomAccountID()
	if err != nil {
		t.Fatal("failed to generate unit ID:", err)
	}
	return uid
}

// NewPrincipal generates random principal, it's not backed by any key.
func NewPrincipal(t *testing.T) types.Principal {
	var p types.Principal
	if err := Random(p[:]); err != nil {
		t.Fatal("failed to generate principal:", err)
	}
	return p
}

func Random(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}
