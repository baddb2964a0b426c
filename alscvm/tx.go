// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alscvm

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/crypto"
	"github.com/ava-labs/avalanchego/utils/hashing"
)

var errTxWrongVersion = errors.New("wrong version")

// UnsignedTransfer is the payload an origin signs. Nonce only makes two
// otherwise identical requests distinct.
type UnsignedTransfer struct {
	To     ids.ShortID `serialize:"true" json:"to"`
	Amount uint64      `serialize:"true" json:"amount"`
	Nonce  uint64      `serialize:"true" json:"nonce"`
}

// Tx is a signed transfer request. The origin is not carried in the tx; it
// is whoever produced Signature.
type Tx struct {
	Unsigned  UnsignedTransfer              `serialize:"true" json:"unsigned"`
	Signature [crypto.SECP256K1RSigLen]byte `serialize:"true" json:"signature"`

	id    ids.ID
	bytes []byte
}

// NewTx signs [unsigned] with [key].
func NewTx(unsigned UnsignedTransfer, key crypto.PrivateKey) (*Tx, error) {
	tx := &Tx{Unsigned: unsigned}
	unsignedBytes, err := tx.UnsignedBytes()
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(unsignedBytes)
	if err != nil {
		return nil, fmt.Errorf("couldn't sign transfer: %w", err)
	}
	copy(tx.Signature[:], sig)
	return tx, tx.initialize()
}

// ParseTx parses [bytes] into a Tx. The signature is not checked here.
func ParseTx(bytes []byte) (*Tx, error) {
	tx := &Tx{}
	parsedVersion, err := Codec.Unmarshal(bytes, tx)
	if err != nil {
		return nil, err
	}
	if parsedVersion != CodecVersion {
		return nil, errTxWrongVersion
	}
	tx.bytes = bytes
	tx.id = hashing.ComputeHash256Array(bytes)
	return tx, nil
}

func (tx *Tx) initialize() error {
	bytes, err := Codec.Marshal(CodecVersion, tx)
	if err != nil {
		return err
	}
	tx.bytes = bytes
	tx.id = hashing.ComputeHash256Array(bytes)
	return nil
}

func (tx *Tx) UnsignedBytes() ([]byte, error) {
	return Codec.Marshal(CodecVersion, &tx.Unsigned)
}

func (tx *Tx) ID() ids.ID    { return tx.id }
func (tx *Tx) Bytes() []byte { return tx.bytes }
