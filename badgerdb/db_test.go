// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package badgerdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
)

func newTestDB(t *testing.T, dir string) *Database {
	t.Helper()

	logger := log.New()
	logger.SetHandler(log.DiscardHandler())
	db, err := New(dir, logger)
	assert.NoError(t, err)
	return db
}

func TestPutGetDelete(t *testing.T) {
	assert := assert.New(t)
	db := newTestDB(t, t.TempDir())
	defer db.Close()

	_, err := db.Get([]byte("missing"))
	assert.ErrorIs(err, database.ErrNotFound)

	assert.NoError(db.Put([]byte("key"), []byte("value")))
	has, err := db.Has([]byte("key"))
	assert.NoError(err)
	assert.True(has)
	value, err := db.Get([]byte("key"))
	assert.NoError(err)
	assert.Equal([]byte("value"), value)

	assert.NoError(db.Delete([]byte("key")))
	has, err = db.Has([]byte("key"))
	assert.NoError(err)
	assert.False(has)
}

func TestBatch(t *testing.T) {
	assert := assert.New(t)
	db := newTestDB(t, t.TempDir())
	defer db.Close()

	assert.NoError(db.Put([]byte("gone"), []byte{1}))

	batch := db.NewBatch()
	assert.NoError(batch.Put([]byte("a"), []byte{2}))
	assert.NoError(batch.Delete([]byte("gone")))
	assert.Equal(len("a")+1+len("gone"), batch.Size())

	// nothing is visible before Write
	has, err := db.Has([]byte("a"))
	assert.NoError(err)
	assert.False(has)

	assert.NoError(batch.Write())
	value, err := db.Get([]byte("a"))
	assert.NoError(err)
	assert.Equal([]byte{2}, value)
	has, err = db.Has([]byte("gone"))
	assert.NoError(err)
	assert.False(has)

	batch.Reset()
	assert.Zero(batch.Size())
}

func TestBatchReplay(t *testing.T) {
	assert := assert.New(t)
	db := newTestDB(t, t.TempDir())
	defer db.Close()

	batch := db.NewBatch()
	assert.NoError(batch.Put([]byte("a"), []byte{1}))
	assert.NoError(batch.Delete([]byte("b")))
	assert.NoError(batch.Put([]byte("c"), []byte{3}))

	target := memdb.New()
	assert.NoError(target.Put([]byte("b"), []byte{2}))
	assert.NoError(batch.Replay(target))

	value, err := target.Get([]byte("a"))
	assert.NoError(err)
	assert.Equal([]byte{1}, value)
	has, err := target.Has([]byte("b"))
	assert.NoError(err)
	assert.False(has)
	value, err = target.Get([]byte("c"))
	assert.NoError(err)
	assert.Equal([]byte{3}, value)
}

func TestStat(t *testing.T) {
	assert := assert.New(t)
	db := newTestDB(t, t.TempDir())
	defer db.Close()

	assert.NoError(db.Put([]byte("key"), []byte("value")))
	for _, property := range []string{LSMSizeStat, VLogSizeStat, LevelsStat} {
		stat, err := db.Stat(property)
		assert.NoError(err, property)
		assert.NotEmpty(stat, property)
	}

	_, err := db.Stat("leveldb.stats")
	assert.ErrorIs(err, database.ErrNotFound)
}

func TestIteratorWithStartAndPrefix(t *testing.T) {
	assert := assert.New(t)
	db := newTestDB(t, t.TempDir())
	defer db.Close()

	for _, key := range []string{"a1", "b1", "b2", "b3", "c1"} {
		assert.NoError(db.Put([]byte(key), []byte(key)))
	}

	collect := func(it database.Iterator) []string {
		defer it.Release()

		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
			assert.Equal(it.Key(), it.Value())
		}
		assert.NoError(it.Error())
		return keys
	}

	assert.Equal([]string{"a1", "b1", "b2", "b3", "c1"}, collect(db.NewIterator()))
	assert.Equal([]string{"b1", "b2", "b3"}, collect(db.NewIteratorWithPrefix([]byte("b"))))
	assert.Equal([]string{"b2", "b3", "c1"}, collect(db.NewIteratorWithStart([]byte("b2"))))
	assert.Equal([]string{"b2", "b3"}, collect(db.NewIteratorWithStartAndPrefix([]byte("b2"), []byte("b"))))
}

func TestPersistsAcrossReopen(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	db := newTestDB(t, dir)
	vdb := versiondb.New(db)
	pdb := prefixdb.New([]byte("balance"), vdb)
	assert.NoError(database.PutUInt64(pdb, []byte("alice"), 42))
	assert.NoError(vdb.Commit())
	assert.NoError(db.Close())

	reopened := newTestDB(t, dir)
	defer reopened.Close()
	balance, err := database.GetUInt64(prefixdb.New([]byte("balance"), reopened), []byte("alice"))
	assert.NoError(err)
	assert.Equal(uint64(42), balance)
}

func TestClosed(t *testing.T) {
	assert := assert.New(t)
	db := newTestDB(t, t.TempDir())
	assert.NoError(db.Close())

	assert.ErrorIs(db.Close(), database.ErrClosed)
	_, err := db.Get([]byte("key"))
	assert.ErrorIs(err, database.ErrClosed)
	assert.ErrorIs(db.Put([]byte("key"), nil), database.ErrClosed)
	_, err = db.HealthCheck()
	assert.ErrorIs(err, database.ErrClosed)
	_, err = db.Stat(LSMSizeStat)
	assert.ErrorIs(err, database.ErrClosed)
	assert.ErrorIs(db.NewIterator().Error(), database.ErrClosed)
}
