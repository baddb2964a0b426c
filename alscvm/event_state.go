// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

var (
	errEventWrongVersion = errors.New("wrong version")

	_ EventState = &eventState{}
)

// TransferEvent records one successful transfer. Events are never changed
// or removed once appended.
type TransferEvent struct {
	From   ids.ShortID `serialize:"true" json:"from"`
	To     ids.ShortID `serialize:"true" json:"to"`
	Amount uint64      `serialize:"true" json:"amount"`
}

// EventState is the append-only transfer event log. Event i is the i-th
// successful transfer, counting from 0.
type EventState interface {
	AppendEvent(event TransferEvent) (uint64, error)
	GetEvent(index uint64) (TransferEvent, error)
	NumEvents() (uint64, error)
}

type eventState struct {
	eventDB     database.Database
	singletonDB database.Database
}

func NewEventState(eventDB, singletonDB database.Database) EventState {
	return &eventState{
		eventDB:     eventDB,
		singletonDB: singletonDB,
	}
}

func eventKey(index uint64) []byte {
	key := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(key, index)
	return key
}

func (s *eventState) AppendEvent(event TransferEvent) (uint64, error) {
	index, err := s.NumEvents()
	if err != nil {
		return 0, err
	}

	bytes, err := Codec.Marshal(CodecVersion, &event)
	if err != nil {
		return 0, err
	}
	if err := s.eventDB.Put(eventKey(index), bytes); err != nil {
		return 0, err
	}
	return index, database.PutUInt64(s.singletonDB, numEventsKey, index+1)
}

// GetEvent returns database.ErrNotFound for an index past the end of the log.
func (s *eventState) GetEvent(index uint64) (TransferEvent, error) {
	bytes, err := s.eventDB.Get(eventKey(index))
	if err != nil {
		return TransferEvent{}, err
	}

	event := TransferEvent{}
	parsedVersion, err := Codec.Unmarshal(bytes, &event)
	if err != nil {
		return TransferEvent{}, err
	}
	if parsedVersion != CodecVersion {
		return TransferEvent{}, errEventWrongVersion
	}
	return event, nil
}

func (s *eventState) NumEvents() (uint64, error) {
	return getUInt64(s.singletonDB, numEventsKey)
}
