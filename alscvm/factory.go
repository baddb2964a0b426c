// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/snow"
	"github.com/ava-labs/avalanchego/vms"
)

// ID is a unique identifier for this VM
var (
	ID             = ids.ID{'a', 'l', 's', 'c', 'v', 'm'}
	_  vms.Factory = &Factory{}
)

// Factory creates VMs
type Factory struct{}

// New returns an uninitialized VM. The ledger runs outside consensus, so
// the context may be nil.
func (f *Factory) New(*snow.Context) (interface{}, error) { return &VM{}, nil }
