package services

import "sync"

// KeyedMutex serializes writers per job ID so concurrent stage updates
// on the same record cannot interleave. Distinct IDs proceed in parallel.
type KeyedMutex struct {
	locks sync.Map
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

func (m *KeyedMutex) Lock(key string) func() {
	value, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	mtx := value.(*sync.Mutex)
	mtx.Lock()
	return mtx.Unlock
}
