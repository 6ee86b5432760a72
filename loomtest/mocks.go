package loomtest

import "github.com/iov-one/loom"

// Tx carries Msg to the router. GetMsg fails with Err when set.
type Tx struct {
	Msg loom.Msg
	Err error
}

var _ loom.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (loom.Msg, error) { return tx.Msg, tx.Err }

// Marshal is not supported, mocked transactions never reach the wire.
func (tx *Tx) Marshal() ([]byte, error) { panic("loomtest: Tx is not serializable") }

// Unmarshal is not supported, mocked transactions never reach the wire.
func (tx *Tx) Unmarshal([]byte) error { panic("loomtest: Tx is not serializable") }

// Msg is routed by RoutePath. Serialized is its wire form and every method
// but Path fails with Err when set.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ loom.Msg = (*Msg)(nil)

func (m *Msg) Path() string             { return m.RoutePath }
func (m *Msg) Validate() error          { return m.Err }
func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}

// calls counts the invocations of a mock.
type calls int

// CallCount returns how many times Check or Deliver was invoked, failed
// calls included.
func (c *calls) CallCount() int { return int(*c) }

// Handler returns the configured results, or the configured error, and
// counts its calls.
type Handler struct {
	calls
	CheckResult   loom.CheckResult
	CheckErr      error
	DeliverResult loom.DeliverResult
	DeliverErr    error
}

var _ loom.Handler = (*Handler)(nil)

func (h *Handler) Check(loom.Context, loom.KVStore, loom.Tx) (*loom.CheckResult, error) {
	h.calls++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(loom.Context, loom.KVStore, loom.Tx) (*loom.DeliverResult, error) {
	h.calls++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// Decorator passes every call to the next handler unless the matching
// error is set, and counts its calls.
type Decorator struct {
	calls
	CheckErr   error
	DeliverErr error
}

var _ loom.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	d.calls++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	d.calls++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// WriteHandler stores Key/Value on every call, then fails with Err if set.
// It shows whether a failed call left its write behind.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ loom.Handler = WriteHandler{}

func (h WriteHandler) Check(_ loom.Context, db loom.KVStore, _ loom.Tx) (*loom.CheckResult, error) {
	if err := h.write(db); err != nil {
		return nil, err
	}
	return &loom.CheckResult{}, nil
}

func (h WriteHandler) Deliver(_ loom.Context, db loom.KVStore, _ loom.Tx) (*loom.DeliverResult, error) {
	if err := h.write(db); err != nil {
		return nil, err
	}
	return &loom.DeliverResult{}, nil
}

func (h WriteHandler) write(db loom.KVStore) error {
	if err := db.Set(h.Key, h.Value); err != nil {
		return err
	}
	return h.Err
}
