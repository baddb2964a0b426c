// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package badgerdb implements database.Database on top of Badger so the
// ledger state can outlive the process.
package badgerdb

import (
	"bytes"
	"strconv"
	"sync"

	"github.com/dgraph-io/badger/v3"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database"
)

var (
	_ database.Database = &Database{}
	_ database.Batch    = &batch{}
	_ database.Iterator = &iterator{}
)

// Database is a database.Database backed by a Badger directory.
type Database struct {
	lock   sync.RWMutex
	db     *badger.DB
	closed bool
}

// New opens, creating if needed, the Badger database in [dir].
func New(dir string, logger log.Logger) (*Database, error) {
	if logger == nil {
		logger = log.Root()
	}
	logger.Info("Loading Badger backend", "dir", dir)

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, err := db.Get(key)
	switch err {
	case nil:
		return true, nil
	case database.ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}

	var value []byte
	err := db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, database.ErrNotFound
	}
	return value, err
}

func (db *Database) Put(key []byte, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Update(func(txn *badger.Txn) error {
		return txn.Set(copyBytes(key), copyBytes(value))
	})
}

func (db *Database) Delete(key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(copyBytes(key))
	})
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db}
}

func (db *Database) NewIterator() database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, nil)
}

func (db *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(start, nil)
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, prefix)
}

// NewIteratorWithStartAndPrefix reads the matching pairs up front, so the
// iterator sees a snapshot and holds no Badger transaction open.
func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return &iterator{err: database.ErrClosed}
	}

	it := &iterator{}
	seek := prefix
	if bytes.Compare(start, prefix) > 0 {
		seek = start
	}
	it.err = db.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		bit := txn.NewIterator(opts)
		defer bit.Close()

		for bit.Seek(seek); bit.ValidForPrefix(prefix); bit.Next() {
			item := bit.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			it.keys = append(it.keys, item.KeyCopy(nil))
			it.values = append(it.values, value)
		}
		return nil
	})
	return it
}

// Stat properties served by Database.Stat.
const (
	LSMSizeStat  = "badger.lsmsize"
	VLogSizeStat = "badger.vlogsize"
	LevelsStat   = "badger.levels"
)

// Stat returns one of the Stat properties above. Any other property is
// database.ErrNotFound.
func (db *Database) Stat(property string) (string, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return "", database.ErrClosed
	}
	switch property {
	case LSMSizeStat:
		lsm, _ := db.db.Size()
		return strconv.FormatInt(lsm, 10), nil
	case VLogSizeStat:
		_, vlog := db.db.Size()
		return strconv.FormatInt(vlog, 10), nil
	case LevelsStat:
		return db.db.LevelsToString(), nil
	default:
		return "", database.ErrNotFound
	}
}

// Compact flattens the LSM tree. Badger does not compact key ranges, so
// [start] and [limit] are ignored.
func (db *Database) Compact(start []byte, limit []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Flatten(1)
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.closed = true
	return db.db.Close()
}

func (db *Database) HealthCheck() (interface{}, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	lsm, vlog := db.db.Size()
	return map[string]int64{
		"lsmSize":  lsm,
		"vlogSize": vlog,
	}, nil
}

func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
