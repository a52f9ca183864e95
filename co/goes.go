// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co holds goroutine helpers.
package co

import (
	"context"
	"sync"
)

// Goes tracks goroutines so their owner can wait for all of them to return.
type Goes struct {
	wg sync.WaitGroup
}

// Go runs f in a tracked goroutine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// GoWithCancel runs f in a tracked goroutine with a context derived from ctx.
// The returned function cancels that context only, other routines keep running.
func (g *Goes) GoWithCancel(ctx context.Context, f func(ctx context.Context)) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	g.Go(func() {
		defer cancel()
		f(ctx)
	})
	return cancel
}

// Wait blocks until every tracked goroutine has returned.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done returns a channel closed once every tracked goroutine has returned.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
