package orm

import (
	"reflect"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// ModelBucket is implemented by buckets that operates on Models.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary key. Result is loaded into given destination model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db loom.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given key exists, ErrNotFound
	// otherwise.
	Has(db loom.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database.
	Put(db loom.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db loom.KVStore, key []byte) error

	// Register the bucket in the query router.
	Register(name string, r loom.QueryRouter)
}

// NewModelBucket returns a ModelBucket storing models of proto type.
func NewModelBucket(name string, proto Model) ModelBucket {
	return &modelBucket{b: NewBucket(name, proto)}
}

type modelBucket struct {
	b Bucket
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db loom.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.b.name, key)
	}
	res, err := mb.b.Parse(raw)
	if err != nil {
		return err
	}

	if !reflect.TypeOf(res).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %T", res, dest)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(res).Elem())
	return nil
}

func (mb *modelBucket) Has(db loom.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.b.name, key)
	}
	return nil
}

func (mb *modelBucket) Put(db loom.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(m).Elem() != mb.b.typ {
		return errors.Wrapf(errors.ErrType, "bucket %s cannot store %T", mb.b.name, m)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}
	if err := db.Set(mb.b.DBKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (mb *modelBucket) Delete(db loom.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	if err := db.Delete(mb.b.DBKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (mb *modelBucket) Register(name string, r loom.QueryRouter) {
	mb.b.Register(name, r)
}
