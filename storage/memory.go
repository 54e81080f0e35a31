package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/zarr-go/zarrs/arraysubset"
)

// MemoryStore is an in-memory Store, used for tests and for small arrays
// that never need to persist past process lifetime.
type MemoryStore struct {
	*keyedMutexes
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore(policy LockPolicy) *MemoryStore {
	return &MemoryStore{
		keyedMutexes: newKeyedMutexes(policy),
		data:         make(map[string][]byte),
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *MemoryStore) GetPartial(ctx context.Context, key string, ranges []arraysubset.ByteRange) ([][]byte, bool, error) {
	m.mu.RLock()
	v, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	out := make([][]byte, len(ranges))
	for i, r := range ranges {
		buf, err := r.Extract(v)
		if err != nil {
			return nil, false, err
		}
		cp := make([]byte, len(buf))
		copy(cp, buf)
		out[i] = cp
	}
	return out, true, nil
}

func (m *MemoryStore) GetPartialMany(ctx context.Context, requests map[string][]arraysubset.ByteRange) (map[string][][]byte, error) {
	out := make(map[string][][]byte, len(requests))
	for key, ranges := range requests {
		bufs, ok, err := m.GetPartial(ctx, key, ranges)
		if err != nil {
			return nil, err
		}
		if ok {
			out[key] = bufs
		}
	}
	return out, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = cp
	return nil
}

func (m *MemoryStore) SetPartial(ctx context.Context, key string, offset uint64, data []byte) error {
	return ReadModifyWrite(ctx, m, key, offset, data, offset+uint64(len(data)))
}

func (m *MemoryStore) Erase(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) ErasePrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	return m.ListPrefix(ctx, "")
}

func (m *MemoryStore) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) ListDir(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	for k := range m.data {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := k[len(prefix):]
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			seen[prefix+rest[:idx+1]] = struct{}{}
		} else {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) Size(ctx context.Context, key string) (uint64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return 0, false, nil
	}
	return uint64(len(v)), true, nil
}
