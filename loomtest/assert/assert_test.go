package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/loom/errors"
)

type recorder struct {
	failed bool
}

func (r *recorder) Helper()                       {}
func (r *recorder) Fatal(...interface{})          { r.failed = true }
func (r *recorder) Fatalf(string, ...interface{}) { r.failed = true }

func TestNil(t *testing.T) {
	var r recorder
	Nil(&r, nil)
	Nil(&r, (*errors.Error)(nil))
	if r.failed {
		t.Fatal("nil values must pass")
	}
	Nil(&r, fmt.Errorf("boom"))
	if !r.failed {
		t.Fatal("not nil value must fail")
	}
}

func TestEqual(t *testing.T) {
	var r recorder
	Equal(&r, []byte("a"), []byte("a"))
	if r.failed {
		t.Fatal("equal values must pass")
	}
	Equal(&r, 1, int64(1))
	if !r.failed {
		t.Fatal("values of different types must fail")
	}
}

func TestIsErr(t *testing.T) {
	IsErr(t, errors.ErrNotFound, errors.Wrap(errors.ErrNotFound, "escrow"))
	IsErr(t, nil, nil)
}
