// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package badgerdb

// iterator walks a snapshot taken when it was created.
type iterator struct {
	keys   [][]byte
	values [][]byte
	pos    int
	err    error

	key, value []byte
}

func (it *iterator) Next() bool {
	if it.err != nil || it.pos >= len(it.keys) {
		it.key, it.value = nil, nil
		return false
	}
	it.key, it.value = it.keys[it.pos], it.values[it.pos]
	it.pos++
	return true
}

func (it *iterator) Error() error  { return it.err }
func (it *iterator) Key() []byte   { return it.key }
func (it *iterator) Value() []byte { return it.value }

func (it *iterator) Release() {
	it.keys, it.values = nil, nil
	it.key, it.value = nil, nil
}
