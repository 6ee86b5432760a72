package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/crypto"
	"github.com/iov-one/loom/errors"
)

// signPrefix versions the layout of the signed bytes.
var signPrefix = []byte{0x00, 0xCA, 0xFE, 0x00}

// VerifyTxSignatures verifies every signature of tx and returns the
// conditions of the signers, in the order of the signatures. The result
// is empty, not nil, for an unsigned transaction. One bad signature fails
// the whole transaction.
func VerifyTxSignatures(db loom.KVStore, tx SignedTx, chainID string) ([]loom.Condition, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	conds := make([]loom.Condition, len(sigs))
	for i, sig := range sigs {
		if conds[i], err = VerifySignature(db, sig, raw, chainID); err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
	}
	return conds, nil
}

// VerifySignature verifies one signature of the transaction bytes raw. On
// success the sequence of the signer is increased and its condition
// returned.
func VerifySignature(db loom.KVStore, sig *StdSignature, raw []byte, chainID string) (loom.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	bucket := NewBucket()
	user, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(raw, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature does not match")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Put(db, user.Pubkey.Address(), user); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes returns the digest a signer signs for the transaction
// bytes raw: the sha512 of
//
//   00 CA FE 00 | len(chainID) (1 byte) | chainID | seq (8 bytes, big endian) | raw
func BuildSignBytes(raw []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrapf(ErrInvalidSequence, "negative sequence %d", seq)
	}
	if !loom.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	msg := make([]byte, 0, len(signPrefix)+1+len(chainID)+8+len(raw))
	msg = append(msg, signPrefix...)
	msg = append(msg, byte(len(chainID)))
	msg = append(msg, chainID...)
	var be [8]byte
	binary.BigEndian.PutUint64(be[:], uint64(seq))
	msg = append(msg, be[:]...)
	msg = append(msg, raw...)

	digest := sha512.Sum512(msg)
	return digest[:], nil
}

// BuildSignBytesTx is BuildSignBytes for the sign bytes of tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(raw, chainID, seq)
}

// SignTx signs tx for chainID with the sequence seq of signer.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{Pubkey: signer.PublicKey(), Signature: sig, Sequence: seq}, nil
}

// NextSequence returns the sequence the next signature of pubkey must
// carry.
func NextSequence(db loom.ReadOnlyKVStore, pubkey *crypto.PublicKey) (int64, error) {
	user, err := NewBucket().GetOrCreate(db, pubkey)
	if err != nil {
		return 0, err
	}
	return user.Sequence, nil
}
