// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
)

func TestBalanceOfUnknownAccount(t *testing.T) {
	assert := assert.New(t)
	s := NewState(memdb.New())

	balance, err := s.BalanceOf(ids.GenerateTestShortID())
	assert.NoError(err)
	assert.Zero(balance)

	supply, err := s.TotalSupply()
	assert.NoError(err)
	assert.Zero(supply)
}

func TestSetBalanceTracksSupply(t *testing.T) {
	assert := assert.New(t)
	s := NewState(memdb.New())
	a, b := ids.ShortID{1}, ids.ShortID{2}

	assert.NoError(s.SetBalance(a, 100))
	assert.NoError(s.SetBalance(b, 50))
	assertSupply(t, s, 150)

	// overwrite, not add
	assert.NoError(s.SetBalance(a, 30))
	assertSupply(t, s, 80)

	assert.NoError(s.SetBalance(b, 0))
	assertSupply(t, s, 30)

	balance, err := s.BalanceOf(b)
	assert.NoError(err)
	assert.Zero(balance)
}

func TestSetBalanceSupplyOverflow(t *testing.T) {
	assert := assert.New(t)
	s := NewState(memdb.New())
	a, b := ids.ShortID{1}, ids.ShortID{2}

	assert.NoError(s.SetBalance(a, MaxBalance-10))
	assert.ErrorIs(s.SetBalance(b, 11), ErrSupplyOverflow)

	balance, err := s.BalanceOf(b)
	assert.NoError(err)
	assert.Zero(balance)
	assertSupply(t, s, MaxBalance-10)

	// the whole supply may sit in one account
	assert.NoError(s.SetBalance(a, MaxBalance))
	assertSupply(t, s, MaxBalance)
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	assert := assert.New(t)
	db := memdb.New()
	a := ids.ShortID{1}

	s := NewState(db)
	assert.NoError(s.SetBalance(a, 42))
	_, err := s.AppendEvent(TransferEvent{From: a, To: a, Amount: 1})
	assert.NoError(err)
	assert.NoError(s.Commit())

	reopened := NewState(db)
	balance, err := reopened.BalanceOf(a)
	assert.NoError(err)
	assert.Equal(uint64(42), balance)
	assertSupply(t, reopened, 42)
	numEvents, err := reopened.NumEvents()
	assert.NoError(err)
	assert.Equal(uint64(1), numEvents)
}

func TestStateAbortDropsStagedWrites(t *testing.T) {
	assert := assert.New(t)
	db := memdb.New()
	a := ids.ShortID{1}

	s := NewState(db)
	assert.NoError(s.SetBalance(a, 10))
	assert.NoError(s.Commit())

	assert.NoError(s.SetBalance(a, 99))
	s.Abort()

	balance, err := s.BalanceOf(a)
	assert.NoError(err)
	assert.Equal(uint64(10), balance)
	assertSupply(t, s, 10)
}

func assertSupply(t *testing.T, s AccountState, expected uint64) {
	t.Helper()

	supply, err := s.TotalSupply()
	assert.NoError(t, err)
	assert.Equal(t, expected, supply)
}
