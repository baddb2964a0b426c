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

// maxEventsPerRequest caps GetEvents replies.
const maxEventsPerRequest = 1024

// Service is the API service for this VM
type Service struct{ vm *VM }

// EmptyArgs are the arguments of methods that take none
type EmptyArgs struct{}

// AddressArgs are arguments that name a single account
type AddressArgs struct {
	Address ids.ShortID `json:"address"`
}

// BalanceReply is the reply from BalanceOf
type BalanceReply struct {
	Balance json.Uint64 `json:"balance"`
}

// BalanceOf returns the balance of [args.Address]; 0 for unknown accounts.
func (s *Service) BalanceOf(_ *http.Request, args *AddressArgs, reply *BalanceReply) error {
	balance, err := s.vm.BalanceOf(args.Address)
	if err != nil {
		return err
	}
	reply.Balance = json.Uint64(balance)
	return nil
}

// TotalSupplyReply is the reply from TotalSupply
type TotalSupplyReply struct {
	TotalSupply json.Uint64 `json:"totalSupply"`
}

func (s *Service) TotalSupply(_ *http.Request, _ *EmptyArgs, reply *TotalSupplyReply) error {
	supply, err := s.vm.TotalSupply()
	if err != nil {
		return err
	}
	reply.TotalSupply = json.Uint64(supply)
	return nil
}

// TransferArgs are the arguments to Transfer
type TransferArgs struct {
	From   ids.ShortID `json:"from"`
	To     ids.ShortID `json:"to"`
	Amount json.Uint64 `json:"amount"`
}

// TransferReply is the reply from Transfer
type TransferReply struct {
	// Index of the transfer's event in the event log
	Index json.Uint64 `json:"index"`
}

// Transfer applies a transfer on behalf of [args.From] without checking a
// signature. It is disabled unless the VM config allows unsigned transfers.
func (s *Service) Transfer(_ *http.Request, args *TransferArgs, reply *TransferReply) error {
	if !s.vm.config.AllowUnsignedTransfers {
		return ErrTransfersDisabled
	}
	_, index, err := s.vm.Transfer(args.From, args.To, uint64(args.Amount))
	if err != nil {
		return err
	}
	reply.Index = json.Uint64(index)
	return nil
}

// IssueTxArgs are the arguments to IssueTx
type IssueTxArgs struct {
	// Tx is the signed tx in checksummed hex (formatting.EncodeWithChecksum)
	Tx string `json:"tx"`
}

// IssueTxReply is the reply from IssueTx
type IssueTxReply struct {
	TxID ids.ID `json:"txID"`
}

// IssueTx queues a signed transfer for execution.
func (s *Service) IssueTx(_ *http.Request, args *IssueTxArgs, reply *IssueTxReply) error {
	txBytes, err := formatting.Decode(formatting.Hex, args.Tx)
	if err != nil {
		return fmt.Errorf("couldn't decode tx: %w", err)
	}
	txID, err := s.vm.IssueTx(txBytes)
	if err != nil {
		return err
	}
	reply.TxID = txID
	return nil
}

// GetTxStatusArgs are the arguments to GetTxStatus
type GetTxStatusArgs struct {
	TxID ids.ID `json:"txID"`
}

// GetTxStatusReply is the reply from GetTxStatus
type GetTxStatusReply struct {
	Status string `json:"status"`
	// Reason is set when the tx was rejected
	Reason string `json:"reason,omitempty"`
}

func (s *Service) GetTxStatus(_ *http.Request, args *GetTxStatusArgs, reply *GetTxStatusReply) error {
	result, err := s.vm.GetTxResult(args.TxID)
	if err != nil {
		return err
	}
	reply.Status = result.Status.String()
	reply.Reason = result.Error
	return nil
}

// GetEventsArgs are the arguments to GetEvents
type GetEventsArgs struct {
	Start json.Uint64 `json:"start"`
	// Limit defaults to, and is capped at, maxEventsPerRequest
	Limit json.Uint64 `json:"limit"`
}

// APIEvent is a transfer event as returned over the API
type APIEvent struct {
	Index  json.Uint64 `json:"index"`
	From   ids.ShortID `json:"from"`
	To     ids.ShortID `json:"to"`
	Amount json.Uint64 `json:"amount"`
}

// GetEventsReply is the reply from GetEvents
type GetEventsReply struct {
	Events    []APIEvent  `json:"events"`
	NumEvents json.Uint64 `json:"numEvents"`
}

// GetEvents returns transfer events in the order they were applied.
func (s *Service) GetEvents(_ *http.Request, args *GetEventsArgs, reply *GetEventsReply) error {
	limit := uint64(args.Limit)
	if limit == 0 || limit > maxEventsPerRequest {
		limit = maxEventsPerRequest
	}

	start := uint64(args.Start)
	events, err := s.vm.Events(start, limit)
	if err != nil {
		return err
	}
	numEvents, err := s.vm.NumEvents()
	if err != nil {
		return err
	}

	reply.Events = make([]APIEvent, len(events))
	for i, event := range events {
		reply.Events[i] = APIEvent{
			Index:  json.Uint64(start + uint64(i)),
			From:   event.From,
			To:     event.To,
			Amount: json.Uint64(event.Amount),
		}
	}
	reply.NumEvents = json.Uint64(numEvents)
	return nil
}
