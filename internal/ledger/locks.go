package ledger

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// keyedLocks serializes mutations per (account, currency) pair. Unrelated
// keys never contend; transfers take both keys in sorted order so two
// opposite transfers cannot deadlock.
type keyedLocks struct {
	locks *xsync.Map[string, *sync.Mutex]
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: xsync.NewMap[string, *sync.Mutex]()}
}

func balanceKey(accountID uuid.UUID, currency string) string {
	return accountID.String() + "/" + currency
}

func (k *keyedLocks) get(key string) *sync.Mutex {
	mu, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	return mu
}

// lock acquires all keys in lexicographic order and returns the unlock
// function releasing them in reverse. Duplicate keys are collapsed.
func (k *keyedLocks) lock(keys ...string) func() {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, key := range sorted {
		mu := k.get(key)
		mu.Lock()
		held = append(held, mu)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
