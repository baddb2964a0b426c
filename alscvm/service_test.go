// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/json"
)

func TestServiceBalances(t *testing.T) {
	assert := assert.New(t)
	vm, _ := newTestVM(t, memdb.New(), map[ids.ShortID]uint64{alice: 100}, nil)
	service := Service{vm}

	balanceReply := BalanceReply{}
	assert.NoError(service.BalanceOf(nil, &AddressArgs{Address: alice}, &balanceReply))
	assert.Equal(json.Uint64(100), balanceReply.Balance)

	assert.NoError(service.BalanceOf(nil, &AddressArgs{Address: bob}, &balanceReply))
	assert.Equal(json.Uint64(0), balanceReply.Balance)

	supplyReply := TotalSupplyReply{}
	assert.NoError(service.TotalSupply(nil, &EmptyArgs{}, &supplyReply))
	assert.Equal(json.Uint64(100), supplyReply.TotalSupply)
}

func TestServiceTransferDisabled(t *testing.T) {
	vm, _ := newTestVM(t, memdb.New(), map[ids.ShortID]uint64{alice: 100}, nil)
	service := Service{vm}

	err := service.Transfer(nil, &TransferArgs{From: alice, To: bob, Amount: 1}, &TransferReply{})
	assert.ErrorIs(t, err, ErrTransfersDisabled)
}

func TestServiceTransfer(t *testing.T) {
	assert := assert.New(t)
	vm, _ := newTestVM(t, memdb.New(), map[ids.ShortID]uint64{alice: 100}, []byte(`{"allowUnsignedTransfers":true}`))
	service := Service{vm}

	reply := TransferReply{}
	assert.NoError(service.Transfer(nil, &TransferArgs{From: alice, To: bob, Amount: 40}, &reply))
	assert.Equal(json.Uint64(0), reply.Index)
	assert.NoError(service.Transfer(nil, &TransferArgs{From: bob, To: carol, Amount: 15}, &reply))
	assert.Equal(json.Uint64(1), reply.Index)

	err := service.Transfer(nil, &TransferArgs{From: carol, To: alice, Amount: 16}, &reply)
	assert.ErrorIs(err, ErrInsufficientBalance)

	eventsReply := GetEventsReply{}
	assert.NoError(service.GetEvents(nil, &GetEventsArgs{}, &eventsReply))
	assert.Equal(json.Uint64(2), eventsReply.NumEvents)
	assert.Equal([]APIEvent{
		{Index: 0, From: alice, To: bob, Amount: 40},
		{Index: 1, From: bob, To: carol, Amount: 15},
	}, eventsReply.Events)

	assert.NoError(service.GetEvents(nil, &GetEventsArgs{Start: 1, Limit: 1}, &eventsReply))
	assert.Equal([]APIEvent{
		{Index: 1, From: bob, To: carol, Amount: 15},
	}, eventsReply.Events)
}

func TestServiceIssueTx(t *testing.T) {
	assert := assert.New(t)
	key := newTestKey(t)
	origin := key.PublicKey().Address()
	vm, _ := newTestVM(t, memdb.New(), map[ids.ShortID]uint64{origin: 10}, nil)
	service := Service{vm}

	tx := signTransfer(t, key, bob, 10, 0)
	txStr, err := formatting.EncodeWithChecksum(formatting.Hex, tx.Bytes())
	assert.NoError(err)

	issueReply := IssueTxReply{}
	assert.NoError(service.IssueTx(nil, &IssueTxArgs{Tx: txStr}, &issueReply))
	assert.Equal(tx.ID(), issueReply.TxID)

	statusReply := GetTxStatusReply{}
	assert.NoError(service.GetTxStatus(nil, &GetTxStatusArgs{TxID: tx.ID()}, &statusReply))
	assert.Equal("Processing", statusReply.Status)

	_, _, err = vm.ExecutePending()
	assert.NoError(err)

	assert.NoError(service.GetTxStatus(nil, &GetTxStatusArgs{TxID: tx.ID()}, &statusReply))
	assert.Equal("Accepted", statusReply.Status)
	assert.Empty(statusReply.Reason)

	assert.Error(service.IssueTx(nil, &IssueTxArgs{Tx: "0xzz"}, &issueReply))
}

func TestStaticServiceBuildGenesis(t *testing.T) {
	assert := assert.New(t)
	ss := CreateStaticService()

	reply := BuildGenesisReply{}
	assert.NoError(ss.BuildGenesis(nil, &BuildGenesisArgs{
		Allocations: []APIAllocation{
			{Address: alice, Balance: 10},
			{Address: bob, Balance: 20},
		},
	}, &reply))

	genesis, err := ParseGenesis([]byte(reply.Genesis))
	assert.NoError(err)
	balances, err := genesis.Balances()
	assert.NoError(err)
	assert.Equal(map[ids.ShortID]uint64{alice: 10, bob: 20}, balances)

	err = ss.BuildGenesis(nil, &BuildGenesisArgs{
		Allocations: []APIAllocation{
			{Address: alice, Balance: 10},
			{Address: alice, Balance: 20},
		},
	}, &reply)
	assert.ErrorIs(err, errDuplicateAllocation)
}

func TestStaticServiceFormatAddress(t *testing.T) {
	assert := assert.New(t)
	ss := CreateStaticService()

	addrStr, err := formatting.EncodeWithChecksum(formatting.Hex, alice[:])
	assert.NoError(err)

	reply := FormatAddressReply{}
	assert.NoError(ss.FormatAddress(nil, &FormatAddressArgs{Bytes: addrStr}, &reply))
	assert.Equal(alice, reply.Address)

	short, err := formatting.EncodeWithChecksum(formatting.Hex, []byte{1, 2, 3})
	assert.NoError(err)
	assert.Error(ss.FormatAddress(nil, &FormatAddressArgs{Bytes: short}, &reply))
}

func TestStaticServiceFormatAddressRequiresChecksum(t *testing.T) {
	assert := assert.New(t)
	ss := CreateStaticService()

	plain, err := formatting.EncodeWithoutChecksum(formatting.Hex, alice[:])
	assert.NoError(err)

	reply := FormatAddressReply{}
	err = ss.FormatAddress(nil, &FormatAddressArgs{Bytes: plain}, &reply)
	if assert.Error(err) {
		assert.Contains(err.Error(), "checksum")
	}
}
