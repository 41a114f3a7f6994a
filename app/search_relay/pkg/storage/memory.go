package storage

import (
	"context"
	"sync"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/cache"
)

var _ cache.Store = (*Memory)(nil)

// Memory 进程内存储，用于测试和单进程部署
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) GetArtifact(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) SetArtifact(_ context.Context, key string, data []byte) error {
	v := make([]byte, len(data))
	copy(v, data)
	m.mu.Lock()
	m.data[key] = v
	m.mu.Unlock()
	return nil
}

// Len 当前条目数
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *Memory) Close() error {
	return nil
}
