// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"errors"
	"fmt"
)

var errStorageFault = errors.New("storage fault")

// ExecutePending drains the mempool in the order txs were issued and runs
// each through the transfer engine. A tx the engine refuses is recorded as
// rejected and is never retried. A storage fault stops execution and is
// returned. The failing tx is recorded as rejected when the fault still
// allows a write, and is Unknown otherwise; the txs behind it stay queued.
func (vm *VM) ExecutePending() (accepted int, rejected int, err error) {
	vm.execLock.Lock()
	defer vm.execLock.Unlock()

	for {
		ptx, ok := vm.mempool.Next()
		if !ok {
			return accepted, rejected, nil
		}

		ok, err := vm.executeTx(ptx)
		vm.mempool.Done(ptx.tx.ID())
		if err != nil {
			vm.log.Error("couldn't execute tx", "txID", ptx.tx.ID(), "error", err)
			return accepted, rejected, err
		}
		if ok {
			accepted++
		} else {
			rejected++
		}
	}
}

// executeTx reports whether [ptx] was accepted. The tx result is committed
// together with the transfer it describes.
func (vm *VM) executeTx(ptx *pendingTx) (bool, error) {
	var (
		tx       = ptx.tx
		txID     = tx.ID()
		unsigned = tx.Unsigned
	)

	var executed bool
	if err := vm.engine.read(func(s State) (err error) {
		executed, err = s.HasTxResult(txID)
		return err
	}); err != nil {
		return false, err
	}
	if executed {
		vm.log.Debug("dropping executed tx", "txID", txID)
		return false, nil
	}

	_, index, err := vm.engine.transfer(ptx.origin, unsigned.To, unsigned.Amount, func(s State) error {
		return s.PutTxResult(txID, TxResult{Status: Accepted})
	})
	switch {
	case err == nil:
		vm.log.Debug("accepted tx", "txID", txID, "eventIndex", index)
		return true, nil
	case errors.Is(err, ErrInsufficientBalance), errors.Is(err, ErrOverflow):
		vm.log.Debug("rejected tx", "txID", txID, "reason", err)
		return false, vm.engine.commit(func(s State) error {
			return s.PutTxResult(txID, TxResult{
				Status: Rejected,
				Error:  err.Error(),
			})
		})
	default:
		if recordErr := vm.engine.commit(func(s State) error {
			return s.PutTxResult(txID, TxResult{
				Status: Rejected,
				Error:  fmt.Sprintf("%s: %s", errStorageFault, err),
			})
		}); recordErr != nil {
			vm.log.Error("couldn't record failed tx", "txID", txID, "error", recordErr)
		}
		return false, err
	}
}
