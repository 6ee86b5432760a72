package gconf

import (
	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
)

// ReadStore is the part of loom.ReadOnlyKVStore Load needs.
type ReadStore interface {
	Get(key []byte) ([]byte, error)
}

// Store is the part of loom.KVStore Save needs.
type Store interface {
	ReadStore
	Set(key, value []byte) error
}

// Configuration is the configuration object of one extension.
type Configuration interface {
	Validate() error
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates conf and stores it as the configuration of pkg,
// replacing the previous one.
func Save(db Store, pkg string, conf Configuration) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	if err := db.Set(key(pkg), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Load reads the configuration of pkg into conf. It fails with ErrNotFound
// when pkg was never configured.
func Load(db ReadStore, pkg string, conf Configuration) error {
	raw, err := db.Get(key(pkg))
	switch {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	return errors.Wrapf(conf.Unmarshal(raw), "unmarshal %s configuration", pkg)
}

// InitConfig saves the configuration found at conf.<pkg> of the genesis
// options.
func InitConfig(db Store, opts loom.Options, pkg string, conf Configuration) error {
	var all loom.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return errors.Wrap(err, "genesis conf")
	}
	if _, ok := all[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis conf.%s", pkg)
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "genesis conf.%s", pkg)
	}
	return Save(db, pkg, conf)
}
