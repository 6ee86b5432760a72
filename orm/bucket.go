package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is impelemented by any entity that can be stored in a bucket.
type Model interface {
	loom.Persistent
	Validate() error
}

// Bucket is a prefixed subspace of the DB holding a single model type.
type Bucket struct {
	name   string
	prefix []byte
	typ    reflect.Type
}

var _ loom.QueryHandler = Bucket{}

// NewBucket creates a bucket to store models of the same type as proto.
// proto must be a pointer to a struct.
func NewBucket(name string, proto Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	typ := reflect.TypeOf(proto)
	if typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("bucket %s: model must be a struct pointer, got %T", name, proto))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		typ:    typ.Elem(),
	}
}

// Name returns the bucket name.
func (b Bucket) Name() string {
	return b.name
}

// Register registers this Bucket for queries. You can define a name here
// for queries, which is different than the bucket name used to prefix
// the data
func (b Bucket) Register(name string, r loom.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db loom.ReadOnlyKVStore, mod string, data []byte) ([]loom.Model, error) {
	switch mod {
	case loom.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []loom.Model{{Key: key, Value: value}}, nil
	case loom.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Parse decodes a stored value into a new model instance.
func (b Bucket) Parse(value []byte) (Model, error) {
	m := reflect.New(b.typ).Interface().(Model)
	if err := m.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "cannot unmarshal %T", m)
	}
	return m, nil
}

func queryPrefix(db loom.ReadOnlyKVStore, prefix []byte) ([]loom.Model, error) {
	iter, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var res []loom.Model
	for iter.Valid() {
		res = append(res, loom.Model{Key: iter.Key(), Value: iter.Value()})
		if err := iter.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// prefixEnd returns the first key after all keys with the prefix.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
