package cas

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/dgryski/go-farm"
)

type MemoryCAS struct {
	mu   sync.RWMutex
	data map[Hash][]byte
}

func NewMemoryCAS() *MemoryCAS {
	return &MemoryCAS{
		data: make(map[Hash][]byte),
	}
}

func (m *MemoryCAS) Has(hash Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[hash]
	return ok
}

func (m *MemoryCAS) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryCAS) Put(item Hashable) (Hash, error) {
	var buf bytes.Buffer
	err := item.Serialize(&buf)
	if err != nil {
		return 0, err
	}
	data := buf.Bytes()
	h := Hash(farm.Hash64(data))

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[h]; ok {
		if !bytes.Equal(existing, data) {
			return 0, fmt.Errorf("%w: 0x%x", ErrCollision, h)
		}
		return h, nil
	}
	m.data[h] = data
	return h, nil
}
