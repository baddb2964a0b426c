// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/snow/engine/common"
)

const defaultMempoolSize = 1024

var (
	ErrMempoolFull = errors.New("mempool is full")
	ErrDuplicateTx = errors.New("duplicate transaction")
)

// pendingTx is a tx whose origin was already authenticated.
type pendingTx struct {
	tx     *Tx
	origin ids.ShortID
}

// mempool is a bounded FIFO of authenticated txs waiting to be executed.
// A tx handed out by Next stays pending until Done is called for it, so it
// is reported as Processing until its result is committed.
type mempool struct {
	lock     sync.Mutex
	toEngine chan<- common.Message
	txs      chan *pendingTx
	pending  map[ids.ID]struct{}
	size     int
}

func newMempool(size int, toEngine chan<- common.Message) *mempool {
	return &mempool{
		toEngine: toEngine,
		txs:      make(chan *pendingTx, size),
		pending:  make(map[ids.ID]struct{}, size),
		size:     size,
	}
}

func (m *mempool) Add(ptx *pendingTx) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	txID := ptx.tx.ID()
	if _, ok := m.pending[txID]; ok {
		return fmt.Errorf("%w: %s is already pending", ErrDuplicateTx, txID)
	}

	select {
	case m.txs <- ptx:
	default:
		return fmt.Errorf("%w: failed to add tx %s at size (%d)", ErrMempoolFull, txID, m.size)
	}
	m.pending[txID] = struct{}{}

	select {
	case m.toEngine <- common.PendingTxs:
	default:
	}
	return nil
}

func (m *mempool) Next() (*pendingTx, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	select {
	case ptx := <-m.txs:
		return ptx, true
	default:
		return nil, false
	}
}

// Done releases [txID] after Next returned it.
func (m *mempool) Done(txID ids.ID) {
	m.lock.Lock()
	defer m.lock.Unlock()

	delete(m.pending, txID)
}

func (m *mempool) Has(txID ids.ID) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	_, ok := m.pending[txID]
	return ok
}

func (m *mempool) Len() int {
	return len(m.txs)
}
