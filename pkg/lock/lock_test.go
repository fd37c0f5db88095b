package lock

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestTryAcquire_ExclusivePerKey(t *testing.T) {
	k := NewKeyed()

	release, ok := k.TryAcquire("agreement:1")
	if !ok {
		t.Fatal("first acquire failed")
	}
	if _, ok := k.TryAcquire("agreement:1"); ok {
		t.Fatal("second acquire on held key succeeded")
	}
	// other keys are independent
	if rel2, ok := k.TryAcquire("agreement:2"); !ok {
		t.Fatal("acquire on different key failed")
	} else {
		rel2()
	}

	release()
	if rel, ok := k.TryAcquire("agreement:1"); !ok {
		t.Fatal("acquire after release failed")
	} else {
		rel()
	}
}

func TestTryAcquire_ReleaseIdempotent(t *testing.T) {
	k := NewKeyed()
	release, _ := k.TryAcquire("x")
	release()
	release() // must not panic or double-delete a later holder

	rel2, ok := k.TryAcquire("x")
	if !ok {
		t.Fatal("re-acquire failed")
	}
	release() // stale release must not free rel2's lease
	if _, ok := k.TryAcquire("x"); ok {
		t.Fatal("stale release freed an active lease")
	}
	rel2()
}

func TestTryAcquire_Concurrent(t *testing.T) {
	k := NewKeyed()
	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := k.TryAcquire("same"); ok {
				atomic.AddInt64(&wins, 1)
				// never released: every other goroutine must lose
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("winners = %d, want 1", wins)
	}
}
