// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/snow/engine/common"

	"github.com/alsania/alscvm/alscvm"
	"github.com/alsania/alscvm/badgerdb"
)

const shutdownTimeout = 10 * time.Second

func main() {
	v, err := getViper(os.Args[1:])
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	config, err := getConfig(v)
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print version and exit
	if config.PrintVersion {
		fmt.Printf("%s@%s\n", alscvm.Name, alscvm.Version)
		os.Exit(0)
	}

	logger, err := newLogger(config.LogLevel, config.LogFormat)
	if err != nil {
		fmt.Printf("couldn't create logger: %s\n", err)
		os.Exit(1)
	}

	if err := run(config, logger); err != nil {
		logger.Crit("alscvm exited with an error", "error", err)
		os.Exit(1)
	}
}

func newLogger(level, format string) (log.Logger, error) {
	lvl, err := log.LvlFromString(level)
	if err != nil {
		return nil, err
	}
	var fmtr log.Format
	switch format {
	case "json":
		fmtr = log.JsonFormat()
	case "terminal":
		fmtr = log.TerminalFormat()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	logger := log.Root()
	logger.SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stdout, fmtr)))
	return logger, nil
}

func openDB(config Config, logger log.Logger) (database.Database, error) {
	switch config.DBType {
	case memDBType:
		logger.Warn("using an in-memory database, state is lost on exit")
		return memdb.New(), nil
	case badgerType:
		db, err := badgerdb.New(config.DBDir, logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownDBType, config.DBType)
	}
}

func run(config Config, logger log.Logger) error {
	var genesisBytes []byte
	if config.GenesisFile != "" {
		var err error
		genesisBytes, err = os.ReadFile(config.GenesisFile)
		if err != nil {
			return fmt.Errorf("couldn't read genesis file: %w", err)
		}
	}
	configBytes, err := json.Marshal(alscvm.Config{
		MempoolSize:            config.MempoolSize,
		AllowUnsignedTransfers: config.AllowUnsignedTransfers,
	})
	if err != nil {
		return err
	}

	db, err := openDB(config, logger)
	if err != nil {
		return fmt.Errorf("couldn't open database: %w", err)
	}
	defer db.Close()

	factory := alscvm.Factory{}
	vmIntf, err := factory.New(nil)
	if err != nil {
		return err
	}
	vm := vmIntf.(*alscvm.VM)

	toEngine := make(chan common.Message, 1)
	if err := vm.Initialize(logger, db, genesisBytes, configBytes, toEngine); err != nil {
		return err
	}
	defer func() {
		if err := vm.Shutdown(); err != nil {
			logger.Error("error shutting down vm", "error", err)
		}
	}()

	router, err := newRouter(vm)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:      router,
		Addr:         net.JoinHostPort(config.HTTPHost, strconv.FormatUint(uint64(config.HTTPPort), 10)),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", server.Addr)
		serverErr <- server.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(config.BuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-toEngine:
		case <-ticker.C:
			if vm.NumPending() == 0 {
				continue
			}
		case err := <-serverErr:
			return fmt.Errorf("http server stopped: %w", err)
		case sig := <-signals:
			logger.Info("Shutting down", "signal", sig)
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}

		accepted, rejected, err := vm.ExecutePending()
		if err != nil {
			return err
		}
		if accepted+rejected > 0 {
			logger.Info("Executed pending txs", "accepted", accepted, "rejected", rejected)
		}
	}
}
