// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"github.com/ava-labs/avalanchego/database"
)

const (
	IsInitializedKey byte = iota
	TotalSupplyKey
	NumEventsKey
)

var (
	isInitializedKey                  = []byte{IsInitializedKey}
	totalSupplyKey                    = []byte{TotalSupplyKey}
	numEventsKey                      = []byte{NumEventsKey}
	_                InitializedState = (*initializedState)(nil)
)

// InitializedState is a thin wrapper around a database to provide, caching,
// serialization, and de-serialization of the initialization status.
type InitializedState interface {
	IsInitialized() (bool, error)
	SetInitialized() error
}

type initializedState struct {
	singletonDB database.Database
}

func NewInitializedState(db database.Database) InitializedState {
	return &initializedState{
		singletonDB: db,
	}
}

func (s *initializedState) IsInitialized() (bool, error) {
	return s.singletonDB.Has(isInitializedKey)
}

func (s *initializedState) SetInitialized() error {
	return s.singletonDB.Put(isInitializedKey, nil)
}

// getUInt64 reads a counter, treating a missing key as zero.
func getUInt64(db database.KeyValueReader, key []byte) (uint64, error) {
	val, err := database.GetUInt64(db, key)
	if err == database.ErrNotFound {
		return 0, nil
	}
	return val, err
}
