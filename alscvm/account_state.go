// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"errors"
	"math"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

const (
	balanceCacheSize = 8192

	// MaxBalance is the largest balance an account, or the supply, can hold.
	MaxBalance uint64 = math.MaxUint64
)

var (
	ErrSupplyOverflow = errors.New("total supply would exceed the maximum balance")

	errSupplyUnderflow = errors.New("total supply is less than a stored balance")

	_ AccountState = &accountState{}
)

// AccountState holds the authoritative balances and the total supply.
//
// SetBalance is an unconditional overwrite: it does not check solvency.
// It does keep the total supply equal to the sum of all balances.
type AccountState interface {
	BalanceOf(addr ids.ShortID) (uint64, error)
	SetBalance(addr ids.ShortID, balance uint64) error
	TotalSupply() (uint64, error)

	ClearCache()
}

type accountState struct {
	balanceCache cache.Cacher
	balanceDB    database.Database
	singletonDB  database.Database
}

func NewAccountState(balanceDB, singletonDB database.Database) AccountState {
	return &accountState{
		balanceCache: &cache.LRU{Size: balanceCacheSize},
		balanceDB:    balanceDB,
		singletonDB:  singletonDB,
	}
}

// BalanceOf returns 0 for an account that was never credited.
func (s *accountState) BalanceOf(addr ids.ShortID) (uint64, error) {
	if balanceIntf, ok := s.balanceCache.Get(addr); ok {
		return balanceIntf.(uint64), nil
	}

	balance, err := getUInt64(s.balanceDB, addr[:])
	if err != nil {
		return 0, err
	}

	s.balanceCache.Put(addr, balance)
	return balance, nil
}

func (s *accountState) SetBalance(addr ids.ShortID, balance uint64) error {
	oldBalance, err := s.BalanceOf(addr)
	if err != nil {
		return err
	}
	supply, err := s.TotalSupply()
	if err != nil {
		return err
	}

	supply, err = safemath.Sub64(supply, oldBalance)
	if err != nil {
		return errSupplyUnderflow
	}
	supply, err = safemath.Add64(supply, balance)
	if err != nil {
		return ErrSupplyOverflow
	}

	// A zero balance is the same as no entry.
	if balance == 0 {
		err = s.balanceDB.Delete(addr[:])
	} else {
		err = database.PutUInt64(s.balanceDB, addr[:], balance)
	}
	if err != nil {
		s.balanceCache.Evict(addr)
		return err
	}
	s.balanceCache.Put(addr, balance)

	return database.PutUInt64(s.singletonDB, totalSupplyKey, supply)
}

func (s *accountState) TotalSupply() (uint64, error) {
	return getUInt64(s.singletonDB, totalSupplyKey)
}

func (s *accountState) ClearCache() {
	s.balanceCache.Flush()
}
