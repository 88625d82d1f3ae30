package http

import (
	"context"
	"sync"
	"time"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/pkg/auth"
)

type tokenResolver map[string]int64

func (r tokenResolver) Resolve(_ context.Context, credential string) (auth.Identity, bool) {
	id, ok := r[credential]
	if !ok {
		return auth.Identity{}, false
	}
	return auth.Identity{UserID: id}, true
}

type memoryRepository struct {
	mu       sync.Mutex
	rows     []domain.Favorite
	failWith error
}

func (m *memoryRepository) index(userID, productID int64) int {
	for i, f := range m.rows {
		if f.UserID == userID && f.ProductID == productID {
			return i
		}
	}
	return -1
}

func (m *memoryRepository) Exists(_ context.Context, userID, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	return m.index(userID, productID) >= 0, nil
}

func (m *memoryRepository) InsertIfAbsent(_ context.Context, userID, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if m.index(userID, productID) < 0 {
		m.rows = append([]domain.Favorite{{
			ID:        int64(len(m.rows) + 1),
			UserID:    userID,
			ProductID: productID,
			CreatedAt: time.Now(),
		}}, m.rows...)
	}
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, userID, productID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	i := m.index(userID, productID)
	if i < 0 {
		return 0, nil
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return 1, nil
}

func (m *memoryRepository) ListForUser(_ context.Context, userID int64) ([]domain.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []domain.Favorite{}
	for _, f := range m.rows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}
