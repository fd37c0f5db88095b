// Package lock provides keyed mutual exclusion for single-flight sections,
// such as holding one repayment attempt per agreement at a time.
package lock

import "sync"

// Keyed hands out at most one lease per key. A second TryAcquire for a held
// key fails immediately instead of blocking: a concurrent repayment attempt
// should be rejected, not queued behind a mutation that may change the state
// it validated against.
type Keyed struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewKeyed() *Keyed {
	return &Keyed{held: make(map[string]struct{})}
}

// TryAcquire takes the lease for key. It returns a release func and true on
// success, or nil and false when the key is already held. The release func
// is idempotent.
func (k *Keyed) TryAcquire(key string) (func(), bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, taken := k.held[key]; taken {
		return nil, false
	}
	k.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			k.mu.Lock()
			delete(k.held, key)
			k.mu.Unlock()
		})
	}, true
}
