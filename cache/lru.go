// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// LRU is a bounded set of recently seen keys on top of golang-lru.
type LRU struct {
	*lru.Cache
	hit, miss atomic.Int64
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU(maxSize int) (*LRU, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: cache}, nil
}

// Mark records key as seen and reports whether it had been seen before.
// A key seen again is refreshed as the most recently used.
func (l *LRU) Mark(key any) bool {
	if _, ok := l.Get(key); ok {
		l.hit.Add(1)
		return true
	}
	l.miss.Add(1)
	l.Add(key, struct{}{})
	return false
}

// Stats returns how many Mark calls found their key and how many did not.
func (l *LRU) Stats() (hit, miss int64) {
	return l.hit.Load(), l.miss.Load()
}
