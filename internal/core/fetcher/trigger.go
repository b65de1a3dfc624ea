package fetcher

import "sync"

// Trigger decides when an identity-dependent fetch must re-run: once each
// time the key changes to a new non-empty value. An empty key (logged out,
// not ready) re-arms it.
type Trigger struct {
	mu   sync.Mutex
	last string
}

// Fire reports whether key is a new transition.
func (t *Trigger) Fire(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if key == "" {
		t.last = ""
		return false
	}
	if key == t.last {
		return false
	}
	t.last = key
	return true
}
