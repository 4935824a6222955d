package ledger

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeyedLocks_SerializesSameKey(t *testing.T) {
	locks := newKeyedLocks()
	key := balanceKey(uuid.New(), "rub")

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(key)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyedLocks_DuplicateKeysCollapse(t *testing.T) {
	locks := newKeyedLocks()
	key := balanceKey(uuid.New(), "rub")

	// Locking the same key twice in one call must not self-deadlock
	unlock := locks.lock(key, key)
	unlock()

	unlock = locks.lock(key)
	unlock()
}

func TestKeyedLocks_OppositeOrderDoesNotDeadlock(t *testing.T) {
	locks := newKeyedLocks()
	a := balanceKey(uuid.New(), "rub")
	b := balanceKey(uuid.New(), "rub")

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := locks.lock(a, b)
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := locks.lock(b, a)
			unlock()
		}()
	}
	wg.Wait()
}

func TestBalanceKey(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id.String()+"/rub", balanceKey(id, "rub"))
	assert.NotEqual(t, balanceKey(id, "rub"), balanceKey(id, "mishka"))
}
