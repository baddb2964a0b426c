// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/crypto"
)

const recoverCacheSize = 2048

var (
	ErrInvalidSignature = errors.New("invalid signature")

	_ Authenticator = &SECP256K1Authenticator{}
)

// Authenticator proves who originated a transaction. The transfer engine
// trusts the origin it is handed; producing that origin is this
// interface's job.
type Authenticator interface {
	Authenticate(tx *Tx) (ids.ShortID, error)
}

// SECP256K1Authenticator recovers the origin from a recoverable secp256k1
// signature over the unsigned transfer bytes.
type SECP256K1Authenticator struct {
	factory *crypto.FactorySECP256K1R
}

func NewSECP256K1Authenticator() *SECP256K1Authenticator {
	return &SECP256K1Authenticator{
		factory: &crypto.FactorySECP256K1R{Cache: cache.LRU{Size: recoverCacheSize}},
	}
}

func (a *SECP256K1Authenticator) Authenticate(tx *Tx) (ids.ShortID, error) {
	unsignedBytes, err := tx.UnsignedBytes()
	if err != nil {
		return ids.ShortEmpty, err
	}
	publicKey, err := a.factory.RecoverPublicKey(unsignedBytes, tx.Signature[:])
	if err != nil {
		return ids.ShortEmpty, fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	return publicKey.Address(), nil
}
