// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/rpc/v2"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/snow/engine/common"

	cjson "github.com/ava-labs/avalanchego/utils/json"
)

const (
	Name        = "alscvm"
	ServiceName = "alsc"
	Version     = "v1.0.0"
)

var (
	ErrTransfersDisabled = errors.New("transfers without a signed tx are disabled")

	errNotInitialized = errors.New("vm is not initialized")
)

// Config is the optional JSON configuration handed to Initialize.
type Config struct {
	MempoolSize int `json:"mempoolSize"`
	// AllowUnsignedTransfers exposes alsc.transfer, which trusts the
	// caller-supplied origin. Only enable it behind a trusted pipeline.
	AllowUnsignedTransfers bool `json:"allowUnsignedTransfers"`
}

// VM hosts the ALSC token ledger.
// The consensus and block pipeline that drives it lives outside this
// package; it calls Transfer, or IssueTx followed by ExecutePending, once
// per validated transaction.
type VM struct {
	// Authenticator verifies issued txs. Defaults to secp256k1 recovery.
	Authenticator Authenticator

	log     log.Logger
	config  Config
	state   State
	engine  *Engine
	mempool *mempool

	execLock sync.Mutex
}

// Initialize this vm
// [logger] is the parent logger, log15's root logger if nil
// [db] is the database the ledger state lives in
// The initial balances are read from [genesisBytes] the first time [db] is
// used; afterwards they are ignored.
// [toEngine] is notified when txs are waiting for ExecutePending
func (vm *VM) Initialize(
	logger log.Logger,
	db database.Database,
	genesisBytes []byte,
	configBytes []byte,
	toEngine chan<- common.Message,
) error {
	if logger == nil {
		logger = log.Root()
	}
	vm.log = logger.New("vm", Name)
	vm.log.Info("Initializing ALSC VM", "Version", Version)

	vm.config = Config{MempoolSize: defaultMempoolSize}
	if len(configBytes) > 0 {
		if err := json.Unmarshal(configBytes, &vm.config); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if vm.config.MempoolSize <= 0 {
		vm.config.MempoolSize = defaultMempoolSize
	}
	if vm.Authenticator == nil {
		vm.Authenticator = NewSECP256K1Authenticator()
	}

	vm.state = NewState(db)
	vm.engine = NewEngine(vm.state, vm.log)
	vm.mempool = newMempool(vm.config.MempoolSize, toEngine)

	initialized, err := vm.state.IsInitialized()
	if err != nil {
		return fmt.Errorf("error while checking db initialization: %w", err)
	}
	if initialized {
		supply, err := vm.state.TotalSupply()
		if err != nil {
			return err
		}
		vm.log.Info("Loaded existing ledger", "totalSupply", supply)
		return nil
	}

	if err := vm.initGenesis(genesisBytes); err != nil {
		vm.state.Abort()
		vm.log.Error("error while applying genesis", "error", err)
		return err
	}
	return nil
}

// initGenesis writes the genesis allocations and marks the db initialized,
// in one commit.
func (vm *VM) initGenesis(genesisBytes []byte) error {
	genesis, err := ParseGenesis(genesisBytes)
	if err != nil {
		return err
	}
	balances, err := genesis.Balances()
	if err != nil {
		return err
	}

	for addr, balance := range balances {
		if err := vm.state.SetBalance(addr, balance); err != nil {
			return fmt.Errorf("error while allocating to %s: %w", addr, err)
		}
	}
	if err := vm.state.SetInitialized(); err != nil {
		return fmt.Errorf("error while setting db to initialized: %w", err)
	}

	// Flush VM's database to underlying db
	if err := vm.state.Commit(); err != nil {
		return fmt.Errorf("error while committing db: %w", err)
	}

	supply, err := vm.state.TotalSupply()
	if err != nil {
		return err
	}
	vm.log.Info("Applied genesis", "accounts", len(balances), "totalSupply", supply)
	return nil
}

func (vm *VM) BalanceOf(addr ids.ShortID) (uint64, error) {
	return vm.engine.BalanceOf(addr)
}

func (vm *VM) TotalSupply() (uint64, error) {
	return vm.engine.TotalSupply()
}

func (vm *VM) NumEvents() (uint64, error) {
	return vm.engine.NumEvents()
}

func (vm *VM) Events(start, limit uint64) ([]TransferEvent, error) {
	return vm.engine.Events(start, limit)
}

// Transfer applies a transfer whose [origin] the caller already
// authenticated.
func (vm *VM) Transfer(origin, recipient ids.ShortID, amount uint64) (TransferEvent, uint64, error) {
	return vm.engine.Transfer(origin, recipient, amount)
}

// IssueTx authenticates a signed transfer and queues it for ExecutePending.
func (vm *VM) IssueTx(txBytes []byte) (ids.ID, error) {
	tx, err := ParseTx(txBytes)
	if err != nil {
		return ids.Empty, fmt.Errorf("couldn't parse tx: %w", err)
	}
	origin, err := vm.Authenticator.Authenticate(tx)
	if err != nil {
		return ids.Empty, err
	}

	txID := tx.ID()
	var executed bool
	if err := vm.engine.read(func(s State) (err error) {
		executed, err = s.HasTxResult(txID)
		return err
	}); err != nil {
		return ids.Empty, err
	}
	if executed {
		return ids.Empty, fmt.Errorf("%w: %s was already executed", ErrDuplicateTx, txID)
	}

	if err := vm.mempool.Add(&pendingTx{tx: tx, origin: origin}); err != nil {
		return ids.Empty, err
	}
	vm.log.Debug("issued tx", "txID", txID, "origin", origin)
	return txID, nil
}

// GetTxResult returns the result of [txID]. A tx is Processing from IssueTx
// until its result is committed. Unknown means the ledger never saw the tx,
// or dropped it after a storage fault that also prevented recording a
// result; such a tx may be issued again.
func (vm *VM) GetTxResult(txID ids.ID) (TxResult, error) {
	if vm.mempool.Has(txID) {
		return TxResult{Status: Processing}, nil
	}

	var result TxResult
	err := vm.engine.read(func(s State) (err error) {
		result, err = s.GetTxResult(txID)
		return err
	})
	if err == database.ErrNotFound {
		return TxResult{Status: Unknown}, nil
	}
	return result, err
}

// NumPending returns the number of txs waiting in the mempool.
func (vm *VM) NumPending() int {
	return vm.mempool.Len()
}

// CreateHandlers returns a map where:
// Keys: The path extension for this VM's API (empty in this case)
// Values: The handler for the API
func (vm *VM) CreateHandlers() (map[string]*common.HTTPHandler, error) {
	handler, err := newHandler(ServiceName, &Service{vm: vm})
	return map[string]*common.HTTPHandler{
		"": {LockOptions: common.NoLock, Handler: handler},
	}, err
}

// CreateStaticHandlers returns a map where:
// Keys: The path extension for this VM's static API
// Values: The handler for that static API
func (vm *VM) CreateStaticHandlers() (map[string]*common.HTTPHandler, error) {
	handler, err := newHandler(ServiceName, CreateStaticService())
	return map[string]*common.HTTPHandler{
		"": {LockOptions: common.NoLock, Handler: handler},
	}, err
}

func newHandler(name string, service interface{}) (http.Handler, error) {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	return server, server.RegisterService(service, name)
}

// HealthCheck reports the ledger's supply and mempool size.
func (vm *VM) HealthCheck() (interface{}, error) {
	if vm.engine == nil {
		return nil, errNotInitialized
	}
	supply, err := vm.engine.TotalSupply()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"totalSupply": supply,
		"pendingTxs":  vm.mempool.Len(),
	}, nil
}

// Version returns the version of the VM.
func (vm *VM) Version() (string, error) {
	return Version, nil
}

// Shutdown closes the underlying database. Txs still in the mempool are
// dropped.
func (vm *VM) Shutdown() error {
	if vm.state == nil {
		return nil
	}
	if n := vm.mempool.Len(); n > 0 {
		vm.log.Warn("shutting down with pending txs", "count", n)
	}
	return vm.state.Close()
}
