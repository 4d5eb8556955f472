package keylock_test

import (
	"sync"
	"testing"
	"time"

	"github.com/ridloal/meoris-storefront/internal/platform/keylock"
	"github.com/stretchr/testify/assert"
)

func TestLock_SerializesSameKey(t *testing.T) {
	l := keylock.New()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("user-1/product-1")
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, l.Len())
}

func TestLock_DifferentKeysDoNotBlock(t *testing.T) {
	l := keylock.New()
	unlockA := l.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := l.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestUnlock_IsIdempotent(t *testing.T) {
	l := keylock.New()
	unlock := l.Lock("k")
	unlock()
	unlock()
	assert.Zero(t, l.Len())

	// the key is reusable afterwards
	l.Lock("k")()
}

func TestKey(t *testing.T) {
	assert.Equal(t, "u\x00p\x00", keylock.Key("u", "p", ""))
	assert.NotEqual(t, keylock.Key("ab", "c"), keylock.Key("a", "bc"))
}
