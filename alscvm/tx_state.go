// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

var (
	errTxResultWrongVersion = errors.New("wrong version")

	_ TxState = &txState{}
)

// Status is the outcome of an executed transaction.
type Status uint8

const (
	Unknown Status = iota
	Processing
	Accepted
	Rejected
)

func (s Status) String() string {
	switch s {
	case Processing:
		return "Processing"
	case Accepted:
		return "Accepted"
	case Rejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// TxResult is stored once per executed transaction.
type TxResult struct {
	Status Status `serialize:"true"`
	Error  string `serialize:"true"`
}

type TxState interface {
	GetTxResult(txID ids.ID) (TxResult, error)
	PutTxResult(txID ids.ID, result TxResult) error
	HasTxResult(txID ids.ID) (bool, error)
}

type txState struct {
	txDB database.Database
}

func NewTxState(db database.Database) TxState {
	return &txState{
		txDB: db,
	}
}

func (s *txState) GetTxResult(txID ids.ID) (TxResult, error) {
	bytes, err := s.txDB.Get(txID[:])
	if err != nil {
		return TxResult{}, err
	}

	result := TxResult{}
	parsedVersion, err := Codec.Unmarshal(bytes, &result)
	if err != nil {
		return TxResult{}, err
	}
	if parsedVersion != CodecVersion {
		return TxResult{}, errTxResultWrongVersion
	}
	return result, nil
}

func (s *txState) PutTxResult(txID ids.ID, result TxResult) error {
	bytes, err := Codec.Marshal(CodecVersion, &result)
	if err != nil {
		return err
	}
	return s.txDB.Put(txID[:], bytes)
}

func (s *txState) HasTxResult(txID ids.ID) (bool, error) {
	return s.txDB.Has(txID[:])
}
