// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package badgerdb

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/ava-labs/avalanchego/database"
)

type keyValue struct {
	key    []byte
	value  []byte
	delete bool
}

// batch buffers writes and applies them in one Badger transaction, so a
// versiondb commit lands entirely or not at all.
type batch struct {
	db     *Database
	writes []keyValue
	size   int
}

func (b *batch) Put(key, value []byte) error {
	b.writes = append(b.writes, keyValue{copyBytes(key), copyBytes(value), false})
	b.size += len(key) + len(value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.writes = append(b.writes, keyValue{copyBytes(key), nil, true})
	b.size += len(key)
	return nil
}

func (b *batch) Size() int { return b.size }

func (b *batch) Write() error {
	b.db.lock.RLock()
	defer b.db.lock.RUnlock()

	if b.db.closed {
		return database.ErrClosed
	}
	return b.db.db.Update(func(txn *badger.Txn) error {
		for _, kv := range b.writes {
			var err error
			if kv.delete {
				err = txn.Delete(kv.key)
			} else {
				err = txn.Set(kv.key, kv.value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *batch) Reset() {
	b.writes = b.writes[:0]
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, kv := range b.writes {
		if kv.delete {
			if err := w.Delete(kv.key); err != nil {
				return err
			}
		} else if err := w.Put(kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch { return b }
