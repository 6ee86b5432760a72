package escrowd

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/codec"
	"github.com/iov-one/loom/crypto"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/escrow"
	"github.com/iov-one/loom/x/sigs"
	"github.com/iov-one/loom/x/token"
)

// messages maps every message path this application routes to a
// constructor of an empty message of that path.
var messages = msgConstructors(
	func() loom.Msg { return new(escrow.OpenMsg) },
	func() loom.Msg { return new(escrow.FulfillMsg) },
	func() loom.Msg { return new(escrow.CancelMsg) },
	func() loom.Msg { return new(token.TransferMsg) },
	func() loom.Msg { return new(token.MintToMsg) },
	func() loom.Msg { return new(token.CreateAccountMsg) },
)

func msgConstructors(fns ...func() loom.Msg) map[string]func() loom.Msg {
	m := make(map[string]func() loom.Msg, len(fns))
	for _, fn := range fns {
		m[fn().Path()] = fn
	}
	return m
}

// Tx is the transaction format of escrowd: a single message together with
// the signatures authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        loom.Msg
}

// make sure tx fulfills all interfaces
var _ loom.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (loom.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) GetMsg() (loom.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	signatures := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = signatures
	return bz, err
}

// Sign appends a signature of signer made with the given sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	var w codec.Writer
	for i, sig := range tx.Signatures {
		if sig == nil {
			return nil, errors.Wrapf(errors.ErrEmpty, "signature %d", i)
		}
		w.Message(1, sig)
	}
	if tx.Msg != nil {
		w.String(2, tx.Msg.Path())
		w.Message(3, tx.Msg)
	}
	return w.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	var (
		path string
		body []byte
	)
	tx.Signatures = nil
	r := codec.NewReader(raw)
	for r.Next() {
		switch r.Field() {
		case 1:
			sig := new(sigs.StdSignature)
			r.Message(sig)
			tx.Signatures = append(tx.Signatures, sig)
		case 2:
			path = r.String()
		case 3:
			body = r.Bytes()
		}
	}
	if err := r.Err(); err != nil {
		return err
	}

	tx.Msg = nil
	if path == "" {
		return nil
	}
	create, ok := messages[path]
	if !ok {
		return errors.Wrapf(errors.ErrMsg, "unknown message path %q", path)
	}
	msg := create()
	if err := msg.Unmarshal(body); err != nil {
		return errors.Wrapf(err, "message %s", path)
	}
	tx.Msg = msg
	return nil
}
