package app

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/codec"
	"github.com/iov-one/loom/errors"
)

// ResultSet is the list of keys or values returned by a query.
type ResultSet struct {
	Results [][]byte
}

var _ loom.Persistent = (*ResultSet)(nil)

func (rs *ResultSet) Marshal() ([]byte, error) {
	var w codec.Writer
	for _, r := range rs.Results {
		w.Entry(1, r)
	}
	return w.Result()
}

func (rs *ResultSet) Unmarshal(raw []byte) error {
	rs.Results = nil
	r := codec.NewReader(raw)
	for r.Next() {
		if r.Field() == 1 {
			rs.Results = append(rs.Results, r.Bytes())
		}
	}
	return r.Err()
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []loom.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []loom.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]loom.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys for %d values", len(kref), len(vref))
	}
	mods := make([]loom.Model, len(kref))
	for i := range mods {
		mods[i] = loom.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o.
// It fails with ErrNotFound if the set is empty.
func UnmarshalOneResult(bz []byte, o loom.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(err, "result set")
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	return o.Unmarshal(res.Results[0])
}
