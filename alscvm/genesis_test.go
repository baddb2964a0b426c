// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ava-labs/avalanchego/ids"
)

func TestParseGenesis(t *testing.T) {
	assert := assert.New(t)
	genesisBytes := []byte(fmt.Sprintf(`
[[allocations]]
address = %q
balance = 100

[[allocations]]
address = %q
balance = 0
`, alice, bob))

	genesis, err := ParseGenesis(genesisBytes)
	assert.NoError(err)
	balances, err := genesis.Balances()
	assert.NoError(err)
	assert.Equal(map[ids.ShortID]uint64{alice: 100, bob: 0}, balances)
}

func TestParseEmptyGenesis(t *testing.T) {
	assert := assert.New(t)

	genesis, err := ParseGenesis(nil)
	assert.NoError(err)
	assert.Empty(genesis.Allocations)
}

func TestParseGenesisErrors(t *testing.T) {
	tests := []struct {
		name    string
		genesis string
		err     error
	}{
		{
			name: "duplicate address",
			genesis: fmt.Sprintf(`
[[allocations]]
address = %q
balance = 1
[[allocations]]
address = %q
balance = 2
`, alice, alice),
			err: errDuplicateAllocation,
		},
		{
			name: "bad address",
			genesis: `
[[allocations]]
address = "not an address"
balance = 1
`,
		},
		{
			name:    "not toml",
			genesis: `allocations = [`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseGenesis([]byte(test.genesis))
			assert.Error(t, err)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
			}
		})
	}
}

func TestGenesisSupplyOverflow(t *testing.T) {
	genesis := Genesis{Allocations: []Allocation{
		{Address: alice.String(), Balance: MaxBalance},
		{Address: bob.String(), Balance: 1},
	}}
	_, err := genesis.Balances()
	assert.ErrorIs(t, err, ErrSupplyOverflow)
}

func TestGenesisBytesRoundTrip(t *testing.T) {
	assert := assert.New(t)
	genesis := &Genesis{Allocations: []Allocation{
		{Address: alice.String(), Balance: 7},
		{Address: carol.String(), Balance: 9},
	}}

	genesisBytes, err := genesis.Bytes()
	assert.NoError(err)
	parsed, err := ParseGenesis(genesisBytes)
	assert.NoError(err)
	assert.Equal(genesis, parsed)
}
