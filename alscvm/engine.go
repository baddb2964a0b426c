// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/ids"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrOverflow            = errors.New("recipient balance would overflow")
)

// Engine applies transfers to the ledger state one at a time.
//
// Every transfer either commits its two balance writes and its event
// together, or leaves the state exactly as it found it.
type Engine struct {
	lock  sync.Mutex
	state State
	log   log.Logger
}

func NewEngine(state State, logger log.Logger) *Engine {
	return &Engine{
		state: state,
		log:   logger,
	}
}

func (e *Engine) BalanceOf(addr ids.ShortID) (uint64, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.state.BalanceOf(addr)
}

func (e *Engine) TotalSupply() (uint64, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.state.TotalSupply()
}

func (e *Engine) NumEvents() (uint64, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.state.NumEvents()
}

// Events returns up to [limit] events starting at index [start].
func (e *Engine) Events(start, limit uint64) ([]TransferEvent, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	numEvents, err := e.state.NumEvents()
	if err != nil {
		return nil, err
	}
	if start >= numEvents {
		return nil, nil
	}
	if remaining := numEvents - start; limit > remaining {
		limit = remaining
	}

	events := make([]TransferEvent, 0, limit)
	for i := start; i < start+limit; i++ {
		event, err := e.state.GetEvent(i)
		if err != nil {
			return nil, fmt.Errorf("couldn't get event %d: %w", i, err)
		}
		events = append(events, event)
	}
	return events, nil
}

// Transfer moves [amount] from [origin] to [recipient] and appends the
// matching event. [origin] must already be authenticated by the caller.
// It returns the event and its index in the event log.
func (e *Engine) Transfer(origin, recipient ids.ShortID, amount uint64) (TransferEvent, uint64, error) {
	return e.transfer(origin, recipient, amount, nil)
}

// transfer is Transfer with an extra write, [record], that is committed in
// the same batch as the transfer itself.
func (e *Engine) transfer(
	origin ids.ShortID,
	recipient ids.ShortID,
	amount uint64,
	record func(State) error,
) (TransferEvent, uint64, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	event, index, err := e.apply(origin, recipient, amount)
	if err == nil && record != nil {
		err = record(e.state)
	}
	if err == nil {
		err = e.state.Commit()
	}
	if err != nil {
		e.state.Abort()
		return TransferEvent{}, 0, err
	}

	e.log.Debug("transfer applied",
		"from", origin,
		"to", recipient,
		"amount", amount,
		"index", index,
	)
	return event, index, nil
}

// commit runs [write] against the state and commits it on its own.
func (e *Engine) commit(write func(State) error) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if err := write(e.state); err != nil {
		e.state.Abort()
		return err
	}
	if err := e.state.Commit(); err != nil {
		e.state.Abort()
		return err
	}
	return nil
}

// read runs [fn] against the committed state.
func (e *Engine) read(fn func(State) error) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	return fn(e.state)
}

// apply stages the transfer. Both checks run before the first write, so a
// rejected transfer stages nothing.
func (e *Engine) apply(origin, recipient ids.ShortID, amount uint64) (TransferEvent, uint64, error) {
	originBalance, err := e.state.BalanceOf(origin)
	if err != nil {
		return TransferEvent{}, 0, fmt.Errorf("couldn't get balance of %s: %w", origin, err)
	}
	if originBalance < amount {
		return TransferEvent{}, 0, fmt.Errorf("%w: %s holds %d, wants to send %d",
			ErrInsufficientBalance, origin, originBalance, amount)
	}
	debited := originBalance - amount

	// A self transfer credits the balance it just debited.
	recipientBalance := debited
	if recipient != origin {
		recipientBalance, err = e.state.BalanceOf(recipient)
		if err != nil {
			return TransferEvent{}, 0, fmt.Errorf("couldn't get balance of %s: %w", recipient, err)
		}
	}
	credited, err := safemath.Add64(recipientBalance, amount)
	if err != nil {
		return TransferEvent{}, 0, fmt.Errorf("%w: %s holds %d, would receive %d",
			ErrOverflow, recipient, recipientBalance, amount)
	}

	if err := e.state.SetBalance(origin, debited); err != nil {
		return TransferEvent{}, 0, fmt.Errorf("couldn't debit %s: %w", origin, err)
	}
	if err := e.state.SetBalance(recipient, credited); err != nil {
		return TransferEvent{}, 0, fmt.Errorf("couldn't credit %s: %w", recipient, err)
	}

	event := TransferEvent{
		From:   origin,
		To:     recipient,
		Amount: amount,
	}
	index, err := e.state.AppendEvent(event)
	if err != nil {
		return TransferEvent{}, 0, fmt.Errorf("couldn't append transfer event: %w", err)
	}
	return event, index, nil
}
