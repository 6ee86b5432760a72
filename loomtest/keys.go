package loomtest

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/crypto"
)

func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() loom.Condition {
	return NewKey().PublicKey().Condition()
}

// NewAddress returns the address of a new random condition. Use it for
// asset descriptors and other addresses nobody signs for.
func NewAddress() loom.Address {
	return NewCondition().Address()
}
