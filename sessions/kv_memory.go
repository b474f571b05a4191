package sessions

import "sync"

// MemoryKeyValue is a thread-safe in-memory KeyValue.
type MemoryKeyValue struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

var _ KeyValue = (*MemoryKeyValue)(nil)

func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{values: make(map[string]string)}
}

func (m *MemoryKeyValue) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKeyValue) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes++
	return nil
}

func (m *MemoryKeyValue) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// Writes returns how many Set calls have been made.
func (m *MemoryKeyValue) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// NewMemoryStore returns a KVStore over a fresh MemoryKeyValue.
func NewMemoryStore() *KVStore {
	return NewKVStore(NewMemoryKeyValue())
}
