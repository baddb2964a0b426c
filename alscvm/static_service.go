// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/json"
)

// StaticService defines the base service for the alsc vm
type StaticService struct{}

// CreateStaticService ...
func CreateStaticService() *StaticService {
	return &StaticService{}
}

// APIAllocation is a genesis allocation as given over the API
type APIAllocation struct {
	Address ids.ShortID `json:"address"`
	Balance json.Uint64 `json:"balance"`
}

// BuildGenesisArgs are arguments for BuildGenesis
type BuildGenesisArgs struct {
	Allocations []APIAllocation `json:"allocations"`
}

// BuildGenesisReply is the reply from BuildGenesis
type BuildGenesisReply struct {
	// Genesis is the TOML genesis document
	Genesis string `json:"genesis"`
}

// BuildGenesis returns the genesis document for the given allocations
func (ss *StaticService) BuildGenesis(_ *http.Request, args *BuildGenesisArgs, reply *BuildGenesisReply) error {
	genesis := Genesis{
		Allocations: make([]Allocation, len(args.Allocations)),
	}
	for i, allocation := range args.Allocations {
		genesis.Allocations[i] = Allocation{
			Address: allocation.Address.String(),
			Balance: uint64(allocation.Balance),
		}
	}
	if _, err := genesis.Balances(); err != nil {
		return err
	}

	bytes, err := genesis.Bytes()
	if err != nil {
		return fmt.Errorf("couldn't encode genesis: %s", err)
	}
	reply.Genesis = string(bytes)
	return nil
}

// FormatAddressArgs are arguments for FormatAddress
type FormatAddressArgs struct {
	// Bytes is the 20 byte address in checksummed hex, as produced by
	// formatting.EncodeWithChecksum. Hex without the trailing 4 byte
	// checksum is rejected.
	Bytes string `json:"bytes"`
}

// FormatAddressReply is the reply from FormatAddress
type FormatAddressReply struct {
	Address ids.ShortID `json:"address"`
}

// FormatAddress returns the address whose raw bytes are [args.Bytes]
func (ss *StaticService) FormatAddress(_ *http.Request, args *FormatAddressArgs, reply *FormatAddressReply) error {
	bytes, err := formatting.Decode(formatting.Hex, args.Bytes)
	if err != nil {
		return fmt.Errorf("couldn't decode address bytes: %s", err)
	}
	addr, err := ids.ToShortID(bytes)
	if err != nil {
		return err
	}
	reply.Address = addr
	return nil
}
