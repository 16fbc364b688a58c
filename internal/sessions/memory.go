package sessions

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	messages  []Message
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Idle sessions expire after ttl.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*memorySession
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memorySession),
	}
}

func (m *MemoryStore) Append(ctx context.Context, sessionID string, messages ...Message) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.evictExpired(now)

	s, ok := m.sessions[sessionID]
	if !ok {
		s = &memorySession{}
		m.sessions[sessionID] = s
	}
	s.messages = append(s.messages, messages...)
	s.expiresAt = now.Add(m.ttl)
	return nil
}

func (m *MemoryStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictExpired(m.now())

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

func (m *MemoryStore) End(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictExpired(m.now())
	return len(m.sessions)
}

func (m *MemoryStore) evictExpired(now time.Time) {
	for id, s := range m.sessions {
		if !now.Before(s.expiresAt) {
			delete(m.sessions, id)
		}
	}
}
