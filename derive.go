package loom

import (
	"filippo.io/edwards25519"
	"github.com/iov-one/loom/errors"
)

// derivedType is the condition type of every derived address.
const derivedType = "derived"

// CreateDerivedAddress computes the address controlled by the extension
// named by tag on behalf of owner, for the given seed and bump.
//
// An address that is a valid ed25519 point could have a private key, so
// such candidates are rejected with ErrDerivation.
func CreateDerivedAddress(tag string, owner Address, seed []byte, bump uint8) (Address, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	data := make([]byte, 0, len(owner)+len(seed)+1)
	data = append(data, owner...)
	data = append(data, seed...)
	data = append(data, bump)

	cond := NewCondition(tag, derivedType, data)
	if err := cond.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrDerivation, "invalid tag %q", tag)
	}
	addr := cond.Address()
	if onCurve(addr) {
		return nil, errors.Wrapf(errors.ErrDerivation, "bump %d yields an ed25519 point", bump)
	}
	return addr, nil
}

// FindDerivedAddress returns the first viable derived address, trying bumps
// from 255 down to 0, together with the bump that produced it.
func FindDerivedAddress(tag string, owner Address, seed []byte) (Address, uint8, error) {
	if err := owner.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "owner")
	}
	if err := NewCondition(tag, derivedType, owner).Validate(); err != nil {
		return nil, 0, errors.Wrapf(errors.ErrDerivation, "invalid tag %q", tag)
	}
	for bump := 255; bump >= 0; bump-- {
		if addr, err := CreateDerivedAddress(tag, owner, seed, uint8(bump)); err == nil {
			return addr, uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrDerivation, "no viable bump")
}

func onCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// Capability authorizes actions on behalf of a derived address. It
// carries everything needed to recompute the address, and is accepted
// wherever the derived address is the owner. Holding a capability is not
// a signature: only code that knows the derivation inputs can build one,
// and every use is checked by recomputing the address.
type Capability struct {
	Tag   string
	Owner Address
	Seed  []byte
	Bump  uint8
}

// Address recomputes the derived address.
func (c Capability) Address() (Address, error) {
	return CreateDerivedAddress(c.Tag, c.Owner, c.Seed, c.Bump)
}

// Authorize succeeds when the capability derives addr.
func (c Capability) Authorize(ctx Context, addr Address) error {
	derived, err := c.Address()
	if err != nil {
		return err
	}
	if !derived.Equals(addr) {
		return errors.Wrapf(errors.ErrDerivation, "capability resolves to %s, not %s", derived, addr)
	}
	return nil
}
