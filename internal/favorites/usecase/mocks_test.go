package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/pkg/auth"
)

// tokenResolver maps fixed tokens to users
type tokenResolver map[string]int64

func (r tokenResolver) Resolve(_ context.Context, credential string) (auth.Identity, bool) {
	id, ok := r[credential]
	if !ok {
		return auth.Identity{}, false
	}
	return auth.Identity{UserID: id}, true
}

type memoryRepository struct {
	mu        sync.Mutex
	rows      []domain.Favorite
	nextID    int64
	failWith  error
	callCount int
}

func (m *memoryRepository) find(userID, productID int64) int {
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
	m.callCount++
	if m.failWith != nil {
		return false, m.failWith
	}
	return m.find(userID, productID) >= 0, nil
}

func (m *memoryRepository) InsertIfAbsent(_ context.Context, userID, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.failWith != nil {
		return m.failWith
	}
	if m.find(userID, productID) >= 0 {
		return nil
	}
	m.nextID++
	m.rows = append(m.rows, domain.Favorite{
		ID:        m.nextID,
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Unix(m.nextID, 0),
	})
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, userID, productID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.failWith != nil {
		return 0, m.failWith
	}
	i := m.find(userID, productID)
	if i < 0 {
		return 0, nil
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return 1, nil
}

func (m *memoryRepository) ListForUser(_ context.Context, userID int64) ([]domain.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []domain.Favorite{}
	for _, f := range m.rows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.FavoriteEvent
	err    error
}

func (p *recordingPublisher) PublishFavoriteEvent(_ context.Context, event domain.FavoriteEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

var errDatabaseDown = errors.Join(domain.ErrStorage, errors.New("connection refused"))
