package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/codec"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest/assert"
	"github.com/iov-one/loom/store"
)

type limits struct {
	Max uint64 `json:"max"`
}

func (l *limits) Marshal() ([]byte, error) {
	var w codec.Writer
	w.Uint64(1, l.Max)
	return w.Result()
}

func (l *limits) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for r.Next() {
		if r.Field() == 1 {
			l.Max = r.Uint64()
		}
	}
	return r.Err()
}

func (l *limits) Validate() error {
	if l.Max == 0 {
		return errors.Wrap(errors.ErrModel, "max")
	}
	return nil
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		wantMax uint64
	}{
		"valid configuration": {
			genesis: `{"conf": {"limits": {"max": 7}}}`,
			wantMax: 7,
		},
		"missing package": {
			genesis: `{"conf": {"other": {}}}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			genesis: `{"conf": {"limits": {"max": 0}}}`,
			wantErr: errors.ErrModel,
		},
		"malformed configuration": {
			genesis: `{"conf": {"limits": {"max": "many"}}}`,
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts loom.Options
			if err := json.Unmarshal([]byte(tc.genesis), &opts); err != nil {
				t.Fatalf("genesis: %s", err)
			}
			db := store.MemStore()
			err := InitConfig(db, opts, "limits", &limits{})
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			var got limits
			assert.Nil(t, Load(db, "limits", &got))
			assert.Equal(t, tc.wantMax, got.Max)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	err := Load(store.MemStore(), "limits", &limits{})
	assert.IsErr(t, errors.ErrNotFound, err)
}
