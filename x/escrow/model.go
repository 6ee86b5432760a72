package escrow

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/orm"
	"github.com/iov-one/loom/x/token"
)

const (
	// DeriveTag is the domain tag of escrow record addresses.
	DeriveTag = "escrow"

	// RecordSize is the number of bytes an escrow record occupies and
	// pays a storage deposit for.
	RecordSize = tagSize + 8 + 1 + 3*loom.AddressLength + 8

	tagSize    = 8
	bucketName = "escrow"
)

// recordTag prefixes every serialized record. It changes with the
// layout.
var recordTag = func() []byte {
	h := sha256.Sum256([]byte("loom:escrow:v1"))
	return h[:tagSize]
}()

// Escrow is the record of an open escrow. It is never updated: Open
// creates it, Fulfill or Cancel deletes it.
type Escrow struct {
	Seed uint64
	// Bump is the derivation proof of the record address.
	Bump    uint8
	Maker   loom.Address
	MintA   loom.Address
	MintB   loom.Address
	Receive uint64
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	if err := e.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := e.MintA.Validate(); err != nil {
		return errors.Wrap(err, "mint a")
	}
	if err := e.MintB.Validate(); err != nil {
		return errors.Wrap(err, "mint b")
	}
	return nil
}

// Marshal writes the fixed size layout: tag, seed, bump, maker, mint A,
// mint B and receive. Integers are little endian.
func (e *Escrow) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, 0, RecordSize)
	raw = append(raw, recordTag...)
	raw = appendUint64(raw, e.Seed)
	raw = append(raw, e.Bump)
	raw = append(raw, e.Maker...)
	raw = append(raw, e.MintA...)
	raw = append(raw, e.MintB...)
	raw = appendUint64(raw, e.Receive)
	return raw, nil
}

func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) != RecordSize {
		return errors.Wrapf(errors.ErrInput, "record must be %d bytes, got %d", RecordSize, len(raw))
	}
	if !bytes.Equal(raw[:tagSize], recordTag) {
		return errors.Wrap(errors.ErrType, "not an escrow record")
	}
	raw = raw[tagSize:]
	e.Seed = binary.LittleEndian.Uint64(raw)
	e.Bump = raw[8]
	raw = raw[9:]
	e.Maker = loom.Address(raw[:loom.AddressLength]).Clone()
	raw = raw[loom.AddressLength:]
	e.MintA = loom.Address(raw[:loom.AddressLength]).Clone()
	raw = raw[loom.AddressLength:]
	e.MintB = loom.Address(raw[:loom.AddressLength]).Clone()
	raw = raw[loom.AddressLength:]
	e.Receive = binary.LittleEndian.Uint64(raw)
	return nil
}

func appendUint64(b []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(b, buf[:]...)
}

// Capability returns the authority of the record address, the owner of
// the vault.
func (e *Escrow) Capability() loom.Capability {
	return loom.Capability{
		Tag:   DeriveTag,
		Owner: e.Maker,
		Seed:  SeedBytes(e.Seed),
		Bump:  e.Bump,
	}
}

// SeedBytes is the derivation seed of an escrow seed.
func SeedBytes(seed uint64) []byte {
	return appendUint64(nil, seed)
}

// RecordAddress returns the address of the escrow of maker with the
// given seed and its derivation proof.
func RecordAddress(maker loom.Address, seed uint64) (loom.Address, uint8, error) {
	return loom.FindDerivedAddress(DeriveTag, maker, SeedBytes(seed))
}

// VaultAddress returns the address of the vault of the escrow stored at
// record.
func VaultAddress(mintA, record loom.Address) loom.Address {
	return token.AccountAddress(mintA, record)
}

// NewBucket returns the bucket of escrow records, keyed by record
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(bucketName, &Escrow{})
}

// RegisterQuery exposes the records under "/escrows".
func RegisterQuery(qr loom.QueryRouter) {
	NewBucket().Register("escrows", qr)
}
