package sigs

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/codec"
	"github.com/iov-one/loom/crypto"
	"github.com/iov-one/loom/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	loom.Tx

	// GetSignBytes returns the canonical byte representation of the Msg.
	// Equivalent to tx.GetMsg().Marshal() in the simplest case, but
	// includes everything that must be covered by the signature.
	GetSignBytes() ([]byte, error)

	// Signatures that will be verified by the Decorator
	GetSignatures() []*StdSignature
}

// StdSignature is a signature of the sign bytes of a transaction, together
// with the public key and the sequence it was made with.
type StdSignature struct {
	Sequence  int64
	Pubkey    *crypto.PublicKey
	Signature []byte
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrEmpty, "pubkey")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	var w codec.Writer
	w.Int64(1, s.Sequence)
	if s.Pubkey != nil {
		w.Message(2, s.Pubkey)
	}
	w.Bytes(3, s.Signature)
	return w.Result()
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			s.Sequence = r.Int64()
		case 2:
			s.Pubkey = &crypto.PublicKey{}
			r.Message(s.Pubkey)
		case 3:
			s.Signature = r.Bytes()
		}
	}
	return r.Err()
}
