package storefront

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// sessionLocks serializes requests of one session so that each cart
// operation runs to completion before the next one restores the cart.
type sessionLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *sessionLocks) lock(id string) (unlock func()) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))

	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
