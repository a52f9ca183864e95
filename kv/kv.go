// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv abstracts the key value store the election state is persisted in.
package kv

// Getter reads single kvs.
type Getter interface {
	// Get returns an error if the key is not found, check it via IsNotFound.
	Get(key []byte) (value []byte, err error)
	Has(key []byte) (bool, error)
	IsNotFound(error) bool
}

// Putter writes single kvs.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Iterator walks kvs in key order. Key and Value are only valid until the next move.
type Iterator interface {
	First() bool
	Last() bool
	Next() bool
	Prev() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Ranger iterates the kvs whose key starts with prefix.
type Ranger interface {
	Iterate(prefix []byte) Iterator
}

// Batch collects writes to apply atomically.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Store is a kv store able to write atomic batches.
type Store interface {
	Getter
	Putter
	Ranger
	NewBatch() Batch
}

// StoreCloser is a store with close method.
type StoreCloser interface {
	Store
	Close() error
}
