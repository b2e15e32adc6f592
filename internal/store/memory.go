package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/serroba/shorty/internal/shortener"
)

type historyEntry struct {
	id    string
	score int64
}

// MemoryStore is an in-memory implementation of shortener.Store.
type MemoryStore struct {
	mu      sync.RWMutex
	urls    map[string]shortener.URL  // code -> record
	history map[string][]historyEntry // user -> entries sorted by (score, id)
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls:    make(map[string]shortener.URL),
		history: make(map[string][]historyEntry),
	}
}

func (m *MemoryStore) Save(_ context.Context, url *shortener.URL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.urls[url.ID] = *url

	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*shortener.URL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.urls[id]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &url, nil
}

func (m *MemoryStore) Increment(_ context.Context, id string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	url, ok := m.urls[id]
	if !ok {
		return 0, fmt.Errorf("increment %s: %w: no such record", id, shortener.ErrStorage)
	}

	url.Count++
	m.urls[id] = url

	return url.Count, nil
}

// Append behaves like a sorted set add: re-adding an id moves it to the new position.
func (m *MemoryStore) Append(_ context.Context, user, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.history[user]

	for i, e := range entries {
		if e.id == id {
			entries = append(entries[:i], entries[i+1:]...)

			break
		}
	}

	entries = append(entries, historyEntry{id: id, score: at.UnixMilli()})
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score < entries[j].score
		}

		return entries[i].id < entries[j].id
	})

	m.history[user] = entries

	return nil
}

func (m *MemoryStore) RangeNewest(_ context.Context, user string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.history[user]
	n := int64(len(entries))

	if start < 0 {
		start = 0
	}

	if stop > n {
		stop = n
	}

	if start >= stop {
		return []string{}, nil
	}

	ids := make([]string, 0, stop-start)
	for i := start; i < stop; i++ {
		ids = append(ids, entries[n-1-i].id)
	}

	return ids, nil
}

func (m *MemoryStore) Count(_ context.Context, user string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.history[user])), nil
}

// MemorySequence is a process-local shortener.Sequence.
type MemorySequence struct {
	value atomic.Uint64
}

// NewMemorySequence creates a sequence whose first value is 1.
func NewMemorySequence() *MemorySequence {
	return &MemorySequence{}
}

func (s *MemorySequence) Next(_ context.Context) (uint64, error) {
	return s.value.Add(1), nil
}

// Compile-time checks.
var (
	_ shortener.Store    = (*MemoryStore)(nil)
	_ shortener.Sequence = (*MemorySequence)(nil)
)
