package escrowd

import (
	"time"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/app"
	"github.com/iov-one/loom/crypto"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Node drives an application the way a consensus engine would, without
// the network: every submitted transaction is checked and then delivered
// in a block of its own that is committed right away.
type Node struct {
	app   app.BaseApp
	clock func() time.Time
}

// NewNode returns a node driving the given application.
func NewNode(a app.BaseApp) *Node {
	return &Node{app: a, clock: time.Now}
}

// WithClock replaces the source of block times.
func (n *Node) WithClock(clock func() time.Time) *Node {
	n.clock = clock
	return n
}

// ChainID returns the chain id stored in the application state.
func (n *Node) ChainID() string {
	return n.app.GetChainID()
}

// Height returns the height of the last committed block.
func (n *Node) Height() int64 {
	return n.app.Info(abci.RequestInfo{}).LastBlockHeight
}

// InitChain loads the genesis into a fresh state and commits it.
func (n *Node) InitChain(gen app.Genesis) error {
	if err := n.app.LoadGenesis(gen); err != nil {
		return err
	}
	n.app.Commit()
	return nil
}

// Sign signs tx with the next sequence of signer.
func (n *Node) Sign(tx *Tx, signer crypto.Signer) error {
	seq, err := n.Sequence(signer.PublicKey())
	if err != nil {
		return err
	}
	return tx.Sign(signer, n.ChainID(), seq)
}

// Submit checks tx and delivers it in a new block. A transaction failing
// the check is not included in a block.
func (n *Node) Submit(tx *Tx) (*loom.DeliverResult, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}

	if res := n.app.CheckTx(raw); res.Code != errors.SuccessCode {
		return nil, errors.FromCode(res.Code, res.Log)
	}

	n.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: n.ChainID(),
			Height:  n.Height() + 1,
			Time:    n.clock().UTC(),
		},
	})
	res := n.app.DeliverTx(raw)
	n.app.EndBlock(abci.RequestEndBlock{})
	n.app.Commit()
	return app.ParseDeliverOrError(res)
}

// Query runs a query against the committed state. Path is a bucket path,
// optionally followed by "?prefix".
func (n *Node) Query(path string, data []byte) ([]loom.Model, error) {
	res := n.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessCode {
		return nil, errors.FromCode(res.Code, res.Log)
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return app.JoinResults(&keys, &values)
}

// Get loads the model stored at key of the bucket at path into dest.
func (n *Node) Get(path string, key []byte, dest loom.Persistent) error {
	res := n.app.Query(abci.RequestQuery{Path: path, Data: key})
	if res.Code != errors.SuccessCode {
		return errors.FromCode(res.Code, res.Log)
	}
	if err := app.UnmarshalOneResult(res.Value, dest); err != nil {
		return errors.Wrapf(err, "%s %X", path, key)
	}
	return nil
}

// Sequence returns the sequence the next signature of pubkey must use.
func (n *Node) Sequence(pubkey *crypto.PublicKey) (int64, error) {
	var user sigs.UserData
	switch err := n.Get("/"+sigs.BucketName, pubkey.Address(), &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}
