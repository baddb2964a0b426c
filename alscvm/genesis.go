// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"errors"
	"fmt"

	"github.com/naoina/toml"

	"github.com/ava-labs/avalanchego/ids"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

var errDuplicateAllocation = errors.New("duplicate genesis allocation")

// Allocation is an initial balance assigned at genesis.
type Allocation struct {
	Address string `toml:"address"`
	Balance uint64 `toml:"balance"`
}

// Genesis is the TOML document the ledger is created from:
//
//	[[allocations]]
//	address = "6Y3kysjF9jnHnYkdS9yGAuoHyae2eNmeV"
//	balance = 1000
type Genesis struct {
	Allocations []Allocation `toml:"allocations"`
}

// ParseGenesis decodes and validates genesis bytes. Empty bytes are a valid
// genesis with no allocations.
func ParseGenesis(genesisBytes []byte) (*Genesis, error) {
	genesis := &Genesis{}
	if err := toml.Unmarshal(genesisBytes, genesis); err != nil {
		return nil, fmt.Errorf("couldn't parse genesis: %w", err)
	}
	if _, err := genesis.Balances(); err != nil {
		return nil, err
	}
	return genesis, nil
}

// Balances returns the allocations keyed by account. Every address must
// parse, appear once, and the allocations must sum to at most MaxBalance.
func (g *Genesis) Balances() (map[ids.ShortID]uint64, error) {
	var (
		balances = make(map[ids.ShortID]uint64, len(g.Allocations))
		supply   uint64
	)
	for _, allocation := range g.Allocations {
		addr, err := ids.ShortFromString(allocation.Address)
		if err != nil {
			return nil, fmt.Errorf("couldn't parse genesis address %q: %w", allocation.Address, err)
		}
		if _, ok := balances[addr]; ok {
			return nil, fmt.Errorf("%w: %s", errDuplicateAllocation, addr)
		}
		balances[addr] = allocation.Balance
		supply, err = safemath.Add64(supply, allocation.Balance)
		if err != nil {
			return nil, ErrSupplyOverflow
		}
	}
	return balances, nil
}

// Bytes encodes the genesis as TOML.
func (g *Genesis) Bytes() ([]byte, error) {
	return toml.Marshal(*g)
}
