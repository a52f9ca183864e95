// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoesWait(t *testing.T) {
	var (
		goes    Goes
		counter int32
	)
	for range 8 {
		goes.Go(func() {
			atomic.AddInt32(&counter, 1)
		})
	}
	goes.Wait()
	assert.Equal(t, int32(8), atomic.LoadInt32(&counter))
}

func TestGoesDone(t *testing.T) {
	var goes Goes
	release := make(chan struct{})
	goes.Go(func() {
		<-release
	})

	done := goes.Done()
	select {
	case <-done:
		t.Fatal("done before routine returned")
	case <-time.After(10 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done not closed")
	}
}

func TestGoesWithCancel(t *testing.T) {
	var goes Goes
	ctx, cancelAll := context.WithCancel(context.Background())
	defer cancelAll()

	stopped := make(chan int, 2)
	cancelFirst := goes.GoWithCancel(ctx, func(ctx context.Context) {
		<-ctx.Done()
		stopped <- 1
	})
	goes.GoWithCancel(ctx, func(ctx context.Context) {
		<-ctx.Done()
		stopped <- 2
	})

	cancelFirst()
	select {
	case id := <-stopped:
		assert.Equal(t, 1, id)
	case <-time.After(time.Second):
		t.Fatal("canceled routine did not stop")
	}

	cancelAll()
	goes.Wait()
	assert.Equal(t, 2, <-stopped)
}
