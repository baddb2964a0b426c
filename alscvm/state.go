// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	singletonStatePrefix = []byte("singleton")
	balanceStatePrefix   = []byte("balance")
	eventStatePrefix     = []byte("event")
	txStatePrefix        = []byte("tx")

	_ State = &state{}
)

// State is a wrapper around the ledger's sub states.
// Writes made through any sub state are staged in memory until Commit
// flushes them to the underlying database in a single batch, or Abort
// drops them.
type State interface {
	InitializedState
	AccountState
	EventState
	TxState

	Commit() error
	Abort()
	Close() error
}

type state struct {
	InitializedState
	AccountState
	EventState
	TxState

	baseDB *versiondb.Database
}

func NewState(db database.Database) State {
	// create a new baseDB
	baseDB := versiondb.New(db)

	singletonDB := prefixdb.New(singletonStatePrefix, baseDB)
	balanceDB := prefixdb.New(balanceStatePrefix, baseDB)
	eventDB := prefixdb.New(eventStatePrefix, baseDB)
	txDB := prefixdb.New(txStatePrefix, baseDB)

	return &state{
		InitializedState: NewInitializedState(singletonDB),
		AccountState:     NewAccountState(balanceDB, singletonDB),
		EventState:       NewEventState(eventDB, singletonDB),
		TxState:          NewTxState(txDB),
		baseDB:           baseDB,
	}
}

// Commit commits pending operations to baseDB
func (s *state) Commit() error {
	return s.baseDB.Commit()
}

// Abort discards pending operations and drops cached values that may
// reflect them.
func (s *state) Abort() {
	s.baseDB.Abort()
	s.AccountState.ClearCache()
}

// Close closes the underlying base database
func (s *state) Close() error {
	return s.baseDB.Close()
}
