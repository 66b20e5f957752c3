package services

import (
	"sync"
	"time"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

// keyedMutex serialises work per key (a user or habit ID) inside this
// process.
type keyedMutex struct {
	locks sync.Map
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
