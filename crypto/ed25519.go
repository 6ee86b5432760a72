// Package crypto provides the ed25519 keys used to sign transactions.
package crypto

import (
	"bytes"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/codec"
	"github.com/iov-one/loom/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the Condition of a public key.
const ExtensionName = "sigs"

// Signer is the private half of a key pair.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message, sig []byte) bool {
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig)
}

// Condition encodes the public key into a loom permission
func (p *PublicKey) Condition() loom.Condition {
	return loom.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is the address of the public key Condition.
func (p *PublicKey) Address() loom.Address {
	return p.Condition().Address()
}

// Equals reports whether both keys are the same.
func (p *PublicKey) Equals(o *PublicKey) bool {
	if p == nil || o == nil {
		return p == o
	}
	return bytes.Equal(p.Ed25519, o.Ed25519)
}

// Validate checks the key size.
func (p *PublicKey) Validate() error {
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "ed25519 public key of %d bytes", len(p.Ed25519))
	}
	return nil
}

func (p *PublicKey) Marshal() ([]byte, error) {
	var w codec.Writer
	w.Bytes(1, p.Ed25519)
	return w.Result()
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		if r.Field() == 1 {
			p.Ed25519 = r.Bytes()
		}
	}
	return r.Err()
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid ed25519 private key")
	}
	return ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message), nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes", ed25519.SeedSize)
	}
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}, nil
}
