// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package alscvm is the ALSC token ledger.
//
// State is a versiondb over any avalanchego database, split into prefixed
// databases:
//
//	singleton/ initialized flag, total supply, number of events
//	balance/   [address] => balance, absent means 0
//	event/     [index]   => TransferEvent
//	tx/        [txID]    => TxResult
//
// The only state transition is a transfer. Genesis allocations are the only
// other writes to balances. Consensus, block production and peer networking
// belong to whatever drives the VM; this package does not model them.
package alscvm
