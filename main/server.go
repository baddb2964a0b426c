// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alsania/alscvm/alscvm"
)

const (
	vmEndpoint     = "/ext/bc/" + alscvm.ServiceName
	staticEndpoint = "/ext/vm/" + alscvm.ServiceName
	healthEndpoint = "/ext/health"
)

// newRouter mounts the VM's handlers the way an avalanche node would.
func newRouter(vm *alscvm.VM) (*mux.Router, error) {
	handlers, err := vm.CreateHandlers()
	if err != nil {
		return nil, err
	}
	staticHandlers, err := vm.CreateStaticHandlers()
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	for extension, handler := range handlers {
		router.Handle(vmEndpoint+extension, handler.Handler).Methods(http.MethodPost)
	}
	for extension, handler := range staticHandlers {
		router.Handle(staticEndpoint+extension, handler.Handler).Methods(http.MethodPost)
	}
	router.HandleFunc(healthEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		details, err := vm.HealthCheck()
		reply := struct {
			Healthy bool        `json:"healthy"`
			Details interface{} `json:"details,omitempty"`
			Error   string      `json:"error,omitempty"`
		}{Healthy: err == nil, Details: details}
		if err != nil {
			reply.Error = err.Error()
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(reply)
	}).Methods(http.MethodGet)

	return router, nil
}
