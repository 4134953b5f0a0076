// Package feedstore はユーザーごとの一時的なフィードセッションを保持します。
// セッションは再生成可能なので、失われても問題ない。
package feedstore

import (
	"context"
	"sync"
	"time"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
)

// Store はフィードセッションの保存先
// セッションが無い場合 Get は model.ErrNotFound を返す。
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.FeedSession, error)
	Save(ctx context.Context, session *model.FeedSession) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type memoryEntry struct {
	session   model.FeedSession
	expiresAt time.Time
}

// MemoryStore はプロセス内に保持する Store (単一インスタンス・開発用)
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore は ttl 経過で失効する MemoryStore を返します。ttl が0以下なら失効しない。
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[uuid.UUID]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, userID uuid.UUID) (*model.FeedSession, error) {
	m.mu.RLock()
	e, ok := m.entries[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, model.ErrNotFound
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, userID)
		m.mu.Unlock()
		return nil, model.ErrNotFound
	}
	s := e.session
	s.Items = append([]model.ContentItem(nil), e.session.Items...)
	return &s, nil
}

func (m *MemoryStore) Save(ctx context.Context, session *model.FeedSession) error {
	e := memoryEntry{session: *session}
	e.session.Items = append([]model.ContentItem(nil), session.Items...)
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[session.UserID] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	delete(m.entries, userID)
	m.mu.Unlock()
	return nil
}
