package token

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x"
)

// Authority proves the right to act on behalf of an owner address.
type Authority interface {
	Authorize(ctx loom.Context, owner loom.Address) error
}

var (
	_ Authority = loom.Capability{}
	_ Authority = signed{}
)

// Signed returns an Authority satisfied when the owner signed the
// current transaction.
func Signed(auth x.Authenticator) Authority {
	return signed{auth: auth}
}

type signed struct {
	auth x.Authenticator
}

func (s signed) Authorize(ctx loom.Context, owner loom.Address) error {
	if !s.auth.HasAddress(ctx, owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", owner)
	}
	return nil
}
